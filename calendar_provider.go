package main

import (
	"time"
)

// Metadata keys attached to every synced event. The fingerprint is the
// reconciliation key; the source tag is how list/cleanup recognize our
// events among everything else on the calendar.
const (
	metaFingerprint   = "fingerprint"
	metaSource        = "source"
	metaKind          = "kind"
	metaSubject       = "subject"
	metaSchemaVersion = "schema_version"
	metaDueDate       = "due_date"

	sourceTag     = "pronote"
	schemaVersion = "2"
)

type CalendarProvider interface {
	GetCalendar(calendarID string) error
	// FindByFingerprint returns the event carrying the given fingerprint in
	// its metadata, or (nil, nil) when no such event exists.
	FindByFingerprint(calendarID string, fingerprint string) (*Event, error)
	AddEvent(calendarID string, event *Event) (string, error)
	UpdateEvent(calendarID string, eventID string, event *Event) error
	DeleteEvent(calendarID string, eventID string) error
	ListEvents(calendarID string, timeMin, timeMax time.Time) ([]*Event, error)
}

type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Status      string
	ColorID     string
	// ReminderMinutes are popup reminder offsets before Start. Empty means
	// no overrides.
	ReminderMinutes []int64
	Metadata        map[string]string
}

// Fingerprint returns the reconciliation key stored in the event metadata,
// empty for events this system did not create.
func (e *Event) Fingerprint() string {
	if e == nil || e.Metadata == nil {
		return ""
	}
	return e.Metadata[metaFingerprint]
}

// FromPronote reports whether the event carries our source tag.
func (e *Event) FromPronote() bool {
	return e != nil && e.Metadata != nil && e.Metadata[metaSource] == sourceTag
}
