package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GoogleCalendarProvider struct {
	service *calendar.Service
	ctx     context.Context
}

func NewGoogleCalendarProvider(ctx context.Context, client *http.Client) (*GoogleCalendarProvider, error) {
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarProvider{
		service: service,
		ctx:     ctx,
	}, nil
}

func (g *GoogleCalendarProvider) GetCalendar(calendarID string) error {
	_, err := g.service.CalendarList.Get(calendarID).Do()
	if err != nil {
		return classifyGoogleErr("get calendar", calendarID, err)
	}
	return nil
}

// FindByFingerprint looks the event up by its private extended property.
// The Calendar API filters server-side, so no window scan is needed.
func (g *GoogleCalendarProvider) FindByFingerprint(calendarID string, fingerprint string) (*Event, error) {
	events, err := g.service.Events.List(calendarID).
		PrivateExtendedProperty(metaFingerprint + "=" + fingerprint).
		SingleEvents(true).
		MaxResults(1).
		Do()
	if err != nil {
		return nil, classifyGoogleErr("find event by fingerprint", calendarID, err)
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return fromGoogleEvent(events.Items[0]), nil
}

func (g *GoogleCalendarProvider) AddEvent(calendarID string, event *Event) (string, error) {
	createdEvent, err := g.service.Events.Insert(calendarID, toGoogleEvent(event)).Do()
	if err != nil {
		return "", classifyGoogleErr("create event", calendarID, err)
	}

	return createdEvent.Id, nil
}

func (g *GoogleCalendarProvider) UpdateEvent(calendarID string, eventID string, event *Event) error {
	_, err := g.service.Events.Update(calendarID, eventID, toGoogleEvent(event)).Do()
	if err != nil {
		return classifyGoogleErr("update event", eventID, err)
	}

	return nil
}

func (g *GoogleCalendarProvider) DeleteEvent(calendarID string, eventID string) error {
	err := g.service.Events.Delete(calendarID, eventID).Do()
	if err != nil {
		return classifyGoogleErr("delete event", eventID, err)
	}
	return nil
}

func (g *GoogleCalendarProvider) ListEvents(calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	var result []*Event
	pageToken := ""
	for {
		call := g.service.Events.List(calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, classifyGoogleErr("list events", calendarID, err)
		}

		for _, item := range events.Items {
			result = append(result, fromGoogleEvent(item))
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return result, nil
}

func toGoogleEvent(event *Event) *calendar.Event {
	googleEvent := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		ColorId:     event.ColorID,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
		},
	}

	if len(event.Metadata) > 0 {
		googleEvent.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: event.Metadata,
		}
	}

	if len(event.ReminderMinutes) > 0 {
		overrides := make([]*calendar.EventReminder, 0, len(event.ReminderMinutes))
		for _, minutes := range event.ReminderMinutes {
			overrides = append(overrides, &calendar.EventReminder{
				Method:  "popup",
				Minutes: minutes,
			})
		}
		googleEvent.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	return googleEvent
}

func fromGoogleEvent(item *calendar.Event) *Event {
	start, _ := time.Parse(time.RFC3339, item.Start.DateTime)
	end, _ := time.Parse(time.RFC3339, item.End.DateTime)

	event := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       start,
		End:         end,
		Status:      item.Status,
		ColorID:     item.ColorId,
	}
	if item.ExtendedProperties != nil {
		event.Metadata = item.ExtendedProperties.Private
	}
	return event
}

func classifyGoogleErr(op, resource string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Service: "google", Err: err}
		case http.StatusNotFound:
			return &NotFoundError{Resource: resource}
		}
	}
	return &TransportError{Op: op, Err: err}
}
