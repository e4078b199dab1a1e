package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// Metadata travels as X- properties on the VEVENT so a CalDAV sink carries
// the same fingerprint/source tags as Google private extended properties.
const caldavMetaPrefix = "X-PRONOTE-"

type CalDAVProvider struct {
	client    *caldav.Client
	ctx       context.Context
	serverURL string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	// Test connection
	_, err = c.FindCalendars(ctx, "")
	if err != nil {
		return nil, &AuthError{Service: "caldav", Err: err}
	}

	return &CalDAVProvider{
		client:    c,
		ctx:       ctx,
		serverURL: serverURL,
	}, nil
}

func (c *CalDAVProvider) GetCalendar(calendarID string) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	// The calendar home set is usually the parent path.
	homeSetPath := "/"
	if calURL.Path != "" {
		parts := strings.Split(strings.TrimRight(calURL.Path, "/"), "/")
		if len(parts) > 1 {
			homeSetPath = "/" + strings.Join(parts[:len(parts)-1], "/")
		}
	}

	calendars, err := c.client.FindCalendars(c.ctx, homeSetPath)
	if err != nil {
		return &TransportError{Op: "find calendars", Err: err}
	}

	for _, cal := range calendars {
		if cal.Path == calURL.Path {
			return nil
		}
	}

	return &NotFoundError{Resource: "calendar " + calURL.Path}
}

// FindByFingerprint scans VEVENTs on the calendar for a matching
// X-PRONOTE-FINGERPRINT property. CalDAV has no server-side property
// filter comparable to Google's, so this is a query-and-scan.
func (c *CalDAVProvider) FindByFingerprint(calendarID string, fingerprint string) (*Event, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar URL: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT"}},
		},
	}

	objects, err := c.client.QueryCalendar(c.ctx, calURL.Path, query)
	if err != nil {
		return nil, &TransportError{Op: "query calendar", Err: err}
	}

	for _, obj := range objects {
		for _, comp := range obj.Data.Component.Children {
			if comp.Name != "VEVENT" {
				continue
			}
			if getTextProp(comp.Props, caldavMetaPrefix+strings.ToUpper(metaFingerprint)) == fingerprint {
				return fromCalDAVComponent(comp), nil
			}
		}
	}

	return nil, nil
}

func (c *CalDAVProvider) AddEvent(calendarID string, event *Event) (string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return "", fmt.Errorf("invalid calendar URL: %w", err)
	}

	// Derive the UID from the fingerprint so a crashed run that already
	// wrote the object overwrites it on retry instead of duplicating.
	eventUID := "pronotecal-" + event.Fingerprint()
	if event.Fingerprint() == "" {
		eventUID = "pronotecal-" + time.Now().Format("20060102T150405Z")
	}

	calendar := ical.NewCalendar()
	calendar.Component.Children = append(calendar.Component.Children, toCalDAVComponent(eventUID, event))

	path := calURL.Path + "/" + eventUID + ".ics"
	_, err = c.client.PutCalendarObject(c.ctx, path, calendar)
	if err != nil {
		return "", &TransportError{Op: "create event", Err: err}
	}

	return eventUID, nil
}

func (c *CalDAVProvider) UpdateEvent(calendarID string, eventID string, event *Event) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	calendar := ical.NewCalendar()
	calendar.Component.Children = append(calendar.Component.Children, toCalDAVComponent(eventID, event))

	// The eventID + .ics is the typical filename format for CalDAV events;
	// PutCalendarObject creates or replaces.
	path := calURL.Path + "/" + eventID + ".ics"
	_, err = c.client.PutCalendarObject(c.ctx, path, calendar)
	if err != nil {
		return &TransportError{Op: "update event", Err: err}
	}

	return nil
}

func (c *CalDAVProvider) DeleteEvent(calendarID string, eventID string) error {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return fmt.Errorf("invalid calendar URL: %w", err)
	}

	path := calURL.Path + "/" + eventID + ".ics"
	err = c.client.Client.RemoveAll(c.ctx, path)
	if err != nil {
		return &TransportError{Op: "delete event", Err: err}
	}

	return nil
}

func (c *CalDAVProvider) ListEvents(calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar URL: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: timeMin,
				End:   timeMax,
			}},
		},
	}

	objects, err := c.client.QueryCalendar(c.ctx, calURL.Path, query)
	if err != nil {
		return nil, &TransportError{Op: "list events", Err: err}
	}

	var result []*Event
	for _, obj := range objects {
		for _, comp := range obj.Data.Component.Children {
			if comp.Name != "VEVENT" {
				continue
			}
			result = append(result, fromCalDAVComponent(comp))
		}
	}

	return result, nil
}

func toCalDAVComponent(uid string, event *Event) *ical.Component {
	icalEvent := ical.NewEvent()
	icalEvent.Component.Props.SetText("UID", uid)
	icalEvent.Component.Props.SetText("SUMMARY", event.Summary)
	icalEvent.Component.Props.SetText("DESCRIPTION", event.Description)
	icalEvent.Component.Props.SetDateTime("DTSTART", event.Start)
	icalEvent.Component.Props.SetDateTime("DTEND", event.End)
	if event.Status != "" {
		icalEvent.Component.Props.SetText("STATUS", strings.ToUpper(event.Status))
	} else {
		icalEvent.Component.Props.SetText("STATUS", "CONFIRMED")
	}
	for key, value := range event.Metadata {
		icalEvent.Component.Props.SetText(caldavMetaPrefix+strings.ToUpper(key), value)
	}
	return icalEvent.Component
}

func fromCalDAVComponent(comp *ical.Component) *Event {
	status := getTextProp(comp.Props, "STATUS")
	if status == "" {
		status = "confirmed"
	} else {
		status = strings.ToLower(status)
	}

	start, _ := comp.Props.DateTime("DTSTART", time.UTC)
	end, _ := comp.Props.DateTime("DTEND", time.UTC)

	metadata := map[string]string{}
	for name, props := range comp.Props {
		if !strings.HasPrefix(name, caldavMetaPrefix) || len(props) == 0 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, caldavMetaPrefix))
		metadata[key] = props[0].Value
	}

	return &Event{
		ID:          getTextProp(comp.Props, "UID"),
		Summary:     getTextProp(comp.Props, "SUMMARY"),
		Description: getTextProp(comp.Props, "DESCRIPTION"),
		Start:       start,
		End:         end,
		Status:      status,
		Metadata:    metadata,
	}
}

// Helper function to get text property safely
func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
