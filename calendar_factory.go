package main

import (
	"context"
	"database/sql"
	"fmt"
)

// CalendarFactory builds the configured calendar sink.
type CalendarFactory struct {
	config *Config
	db     *sql.DB
	ctx    context.Context
}

func NewCalendarFactory(ctx context.Context, config *Config, db *sql.DB) *CalendarFactory {
	return &CalendarFactory{
		config: config,
		db:     db,
		ctx:    ctx,
	}
}

// CreateProvider returns the provider selected by sync.provider together
// with the calendar identifier to address it with (a Google calendar ID or
// a CalDAV collection URL).
func (cf *CalendarFactory) CreateProvider() (CalendarProvider, string, error) {
	switch cf.config.Sync.Provider {
	case "google":
		client, err := getClient(cf.ctx, oauthConfig, cf.db, defaultAccount)
		if err != nil {
			return nil, "", err
		}
		provider, err := NewGoogleCalendarProvider(cf.ctx, client)
		if err != nil {
			return nil, "", fmt.Errorf("error creating Google calendar provider: %w", err)
		}
		return provider, cf.config.Google.CalendarID, nil

	case "caldav":
		serverName := cf.config.Sync.CalDAVServer
		server, ok := cf.config.CalDAVs[serverName]
		if !ok {
			return nil, "", fmt.Errorf("CalDAV server %q not found in configuration", serverName)
		}
		provider, err := NewCalDAVProvider(cf.ctx, server.ServerURL, server.Username, server.Password)
		if err != nil {
			return nil, "", fmt.Errorf("error connecting to CalDAV server %s: %w", serverName, err)
		}
		return provider, server.CalendarURL, nil

	default:
		return nil, "", fmt.Errorf("unsupported provider type: %s", cf.config.Sync.Provider)
	}
}

// ValidateCalendarAccess checks if the provided calendar ID is accessible
func (cf *CalendarFactory) ValidateCalendarAccess(provider CalendarProvider, calendarID string) error {
	return provider.GetCalendar(calendarID)
}
