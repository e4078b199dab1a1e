package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// listEvents prints the source-tagged events inside the look-ahead window.
func listEvents(cfg *Config) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	factory := NewCalendarFactory(ctx, cfg, db)
	provider, calendarID, err := factory.CreateProvider()
	if err != nil {
		log.Fatalf("Error initializing calendar provider: %v", err)
	}

	now := time.Now().In(cfg.Location())
	windowEnd := now.AddDate(0, 0, cfg.Sync.DaysAhead)

	events, err := provider.ListEvents(calendarID, now, windowEnd)
	if err != nil {
		log.Fatalf("Error retrieving events: %v", err)
	}

	fmt.Printf("📋 Synced events in the next %d days:\n", cfg.Sync.DaysAhead)
	count := 0
	for _, event := range events {
		if !event.FromPronote() {
			continue
		}
		count++
		fmt.Printf("  📅 %s  %s (%s, hash: %.8s)\n",
			event.Start.Format("2006-01-02 15:04"),
			event.Summary,
			event.Metadata[metaKind],
			event.Fingerprint())
	}
	if count == 0 {
		fmt.Println("  (none)")
	}
}
