package main

import (
	"fmt"
	"strings"
	"time"
)

// Homework events land at 18:00 local on the due date; study reminders at
// 17:00 on their own day. Both come from the original operator setup and
// are deliberate, not derived from the school timetable.
const homeworkStartHour = 18
const reminderStartHour = 17

const titleExcerptLen = 80

// materializeEvent builds the calendar payload for a homework assignment.
// Pure: same assignment + fingerprint + config always yields the same payload.
func materializeEvent(a Assignment, fingerprint string, cfg *Config) *Event {
	start := time.Date(a.DueDate.Year(), a.DueDate.Month(), a.DueDate.Day(),
		homeworkStartHour, 0, 0, 0, cfg.Location())
	end := start.Add(time.Duration(cfg.Sync.EventDurationHours) * time.Hour)

	dueDate := a.DueDate.Format("2006-01-02")
	event := &Event{
		Summary: eventTitle(a.Subject, a.Description),
		Description: fmt.Sprintf("%s\n\nSubject: %s\nDue Date: %s",
			a.DetailedDescription, a.Subject, dueDate),
		Start:   start,
		End:     end,
		Status:  "confirmed",
		ColorID: colorForSubject(a.Subject),
		Metadata: map[string]string{
			metaFingerprint:   fingerprint,
			metaSource:        sourceTag,
			metaKind:          a.Kind,
			metaSubject:       a.Subject,
			metaSchemaVersion: schemaVersion,
			metaDueDate:       dueDate,
		},
	}

	if !cfg.Sync.DisableReminders {
		// 1 hour and 1 day before
		event.ReminderMinutes = []int64{60, 1440}
	}

	return event
}

// materializeExamEvent builds the payload for an exam/evaluation record.
func materializeExamEvent(e Exam, fingerprint string, cfg *Config) *Event {
	start := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(),
		homeworkStartHour, 0, 0, 0, cfg.Location())
	end := start.Add(time.Duration(cfg.Sync.ExamEventDurationHours) * time.Hour)

	examDate := e.Date.Format("2006-01-02")
	body := fmt.Sprintf("%s\n\nSubject: %s\nDate: %s", e.DetailedDescription, e.Subject, examDate)
	if e.Teacher != "" {
		body += "\nTeacher: " + e.Teacher
	}
	if e.Coefficient > 0 {
		body += fmt.Sprintf("\nCoefficient: %g", e.Coefficient)
	}

	event := &Event{
		Summary:     "📝 " + eventTitle(e.Subject, e.Description),
		Description: body,
		Start:       start,
		End:         end,
		Status:      "confirmed",
		ColorID:     colorForSubject(e.Subject),
		Metadata: map[string]string{
			metaFingerprint:   fingerprint,
			metaSource:        sourceTag,
			metaKind:          "test",
			metaSubject:       e.Subject,
			metaSchemaVersion: schemaVersion,
			metaDueDate:       examDate,
		},
	}

	if !cfg.Sync.DisableReminders {
		event.ReminderMinutes = []int64{60, 1440}
	}

	return event
}

// Study reminder offsets in days before the exam.
var studyReminderOffsets = []int{3, 1}

// materializeStudyReminders builds the reminder payloads preceding an exam.
// Each reminder gets a derived fingerprint so a rerun can recognize it.
func materializeStudyReminders(e Exam, examFingerprint string, cfg *Config) []*Event {
	reminders := make([]*Event, 0, len(studyReminderOffsets))
	for i, daysBefore := range studyReminderOffsets {
		day := e.Date.AddDate(0, 0, -daysBefore)
		start := time.Date(day.Year(), day.Month(), day.Day(),
			reminderStartHour, 0, 0, 0, cfg.Location())

		reminders = append(reminders, &Event{
			Summary: fmt.Sprintf("📚 Réviser: %s", eventTitle(e.Subject, e.Description)),
			Description: fmt.Sprintf("Study session for the exam on %s.\n\nSubject: %s",
				e.Date.Format("2006-01-02"), e.Subject),
			Start:   start,
			End:     start.Add(time.Hour),
			Status:  "confirmed",
			ColorID: colorForSubject(e.Subject),
			Metadata: map[string]string{
				metaFingerprint:   fmt.Sprintf("%s-reminder-%d", examFingerprint, i+1),
				metaSource:        sourceTag,
				metaKind:          "reminder",
				metaSubject:       e.Subject,
				metaSchemaVersion: schemaVersion,
			},
		})
	}
	return reminders
}

func eventTitle(subject, description string) string {
	return subject + ": " + excerpt(description, titleExcerptLen)
}

func excerpt(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "…"
}

// Google Calendar color ids per subject keyword. Ordered: the first
// matching keyword wins, so compound subjects map the same color on
// every run.
var subjectColors = []struct {
	keyword string
	color   string
}{
	{"mathématiques", "11"}, // Red
	{"français", "3"},       // Purple
	{"anglais", "5"},        // Yellow
	{"histoire", "8"},       // Gray
	{"géographie", "8"},     // Gray
	{"sciences", "2"},       // Green
	{"physique", "2"},       // Green
	{"chimie", "2"},         // Green
	{"eps", "4"},            // Orange
	{"arts", "6"},           // Orange
	{"technologie", "9"},    // Blue
}

func colorForSubject(subject string) string {
	lower := strings.ToLower(subject)
	for _, entry := range subjectColors {
		if strings.Contains(lower, entry.keyword) {
			return entry.color
		}
	}
	return "1" // Default blue
}
