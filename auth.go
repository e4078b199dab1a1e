package main

import (
	"context"
	"fmt"
	"log"
)

// authorize runs the interactive OAuth flow and stores the resulting token
// in sqlite, then verifies the configured calendar is reachable.
func authorize(cfg *Config) {
	if cfg.Sync.Provider != "google" {
		fmt.Println("ℹ️ The auth command is only needed for the google provider; CalDAV uses basic auth from the config file.")
		return
	}

	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Println("🚀 Starting Google Calendar authorization...")
	token := getTokenFromWeb(oauthConfig)
	if err := saveToken(db, defaultAccount, token); err != nil {
		log.Fatalf("Error saving token: %v", err)
	}

	ctx := context.Background()
	factory := NewCalendarFactory(ctx, cfg, db)
	provider, calendarID, err := factory.CreateProvider()
	if err != nil {
		log.Fatalf("Error creating calendar provider: %v", err)
	}
	if err := factory.ValidateCalendarAccess(provider, calendarID); err != nil {
		log.Fatalf("Error retrieving calendar %s: %v", calendarID, err)
	}

	fmt.Printf("✅ Authorized; calendar %s is accessible\n", calendarID)
}
