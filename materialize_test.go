package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeEvent(t *testing.T) {
	cfg := testConfig(t)
	a := Assignment{
		Subject:             "Mathématiques",
		Description:         "Exercices 12 à 15 page 98",
		DetailedDescription: "Exercices 12 à 15 page 98, à rendre sur feuille.",
		DueDate:             time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Kind:                "homework",
	}
	fp := contentHash(a.Subject, a.DueDate, a.Description)

	event := materializeEvent(a, fp, cfg)

	assert.Equal(t, "Mathématiques: Exercices 12 à 15 page 98", event.Summary)
	assert.Equal(t, time.Date(2025, 6, 10, 18, 0, 0, 0, cfg.Location()), event.Start)
	assert.Equal(t, event.Start.Add(2*time.Hour), event.End)
	assert.Contains(t, event.Description, "Subject: Mathématiques")
	assert.Contains(t, event.Description, "Due Date: 2025-06-10")
	assert.Equal(t, "11", event.ColorID)
	assert.Equal(t, []int64{60, 1440}, event.ReminderMinutes)

	require.NotNil(t, event.Metadata)
	assert.Equal(t, fp, event.Metadata[metaFingerprint])
	assert.Equal(t, "pronote", event.Metadata[metaSource])
	assert.Equal(t, "homework", event.Metadata[metaKind])
	assert.Equal(t, "Mathématiques", event.Metadata[metaSubject])
	assert.Equal(t, "2", event.Metadata[metaSchemaVersion])
	assert.Equal(t, "2025-06-10", event.Metadata[metaDueDate])
}

func TestMaterializeEvent_Pure(t *testing.T) {
	cfg := testConfig(t)
	a := mathAssignment()
	fp := contentHash(a.Subject, a.DueDate, a.Description)

	assert.Equal(t, materializeEvent(a, fp, cfg), materializeEvent(a, fp, cfg))
}

func TestMaterializeEvent_DisabledReminders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sync.DisableReminders = true

	event := materializeEvent(mathAssignment(), "fp", cfg)
	assert.Empty(t, event.ReminderMinutes)
}

func TestMaterializeEvent_ExcerptsLongDescriptions(t *testing.T) {
	cfg := testConfig(t)
	a := mathAssignment()
	a.Description = strings.Repeat("réviser le chapitre ", 10)

	event := materializeEvent(a, "fp", cfg)

	title := []rune(event.Summary)
	assert.LessOrEqual(t, len(title), len([]rune("Math: "))+titleExcerptLen)
	assert.True(t, strings.HasSuffix(event.Summary, "…"))
}

func TestMaterializeExamEvent(t *testing.T) {
	cfg := testConfig(t)
	e := Exam{
		Subject:             "Physique",
		Description:         "Contrôle optique",
		DetailedDescription: "Chapitres 3 et 4",
		Date:                time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Teacher:             "Mme Curie",
		Coefficient:         2,
		Source:              "evaluation",
	}
	fp := examContentHash(e.Subject, e.Date, e.Description, e.Source)

	event := materializeExamEvent(e, fp, cfg)

	assert.Equal(t, "📝 Physique: Contrôle optique", event.Summary)
	assert.Equal(t, time.Date(2025, 6, 12, 18, 0, 0, 0, cfg.Location()), event.Start)
	assert.Equal(t, event.Start.Add(time.Hour), event.End)
	assert.Contains(t, event.Description, "Teacher: Mme Curie")
	assert.Contains(t, event.Description, "Coefficient: 2")
	assert.Equal(t, "test", event.Metadata[metaKind])
	assert.Equal(t, fp, event.Metadata[metaFingerprint])
}

func TestMaterializeStudyReminders(t *testing.T) {
	cfg := testConfig(t)
	e := Exam{
		Subject:     "Anglais",
		Description: "Oral presentation",
		Date:        time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Source:      "evaluation",
	}

	reminders := materializeStudyReminders(e, "abc123", cfg)

	require.Len(t, reminders, 2)
	assert.Equal(t, time.Date(2025, 6, 9, 17, 0, 0, 0, cfg.Location()), reminders[0].Start)
	assert.Equal(t, time.Date(2025, 6, 11, 17, 0, 0, 0, cfg.Location()), reminders[1].Start)
	assert.Equal(t, "abc123-reminder-1", reminders[0].Fingerprint())
	assert.Equal(t, "abc123-reminder-2", reminders[1].Fingerprint())
	for _, r := range reminders {
		assert.Equal(t, "pronote", r.Metadata[metaSource])
		assert.Equal(t, "reminder", r.Metadata[metaKind])
		assert.Contains(t, r.Summary, "Réviser")
	}
}

func TestColorForSubject(t *testing.T) {
	assert.Equal(t, "11", colorForSubject("Mathématiques"))
	assert.Equal(t, "3", colorForSubject("FRANÇAIS"))
	assert.Equal(t, "2", colorForSubject("Physique-Chimie"))
	assert.Equal(t, "1", colorForSubject("Latin"))

	// Subjects matching several keywords resolve to the first entry, every
	// time.
	for i := 0; i < 50; i++ {
		assert.Equal(t, "8", colorForSubject("Histoire des Arts"))
	}
}
