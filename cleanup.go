package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Cleanup scans a generous window around now; synced events never land
// further out than the look-ahead, but stale ones can be long past.
const cleanupLookbackDays = 365

// cleanupCalendar deletes every source-tagged event from the target
// calendar. This is the only deletion path in the system; a sync run never
// deletes anything.
func cleanupCalendar(cfg *Config) {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	fmt.Print("⚠️  This deletes every Pronote-synced event from the calendar. Continue? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "y" && confirmation != "Y" {
		fmt.Println("❌ Cleanup cancelled")
		return
	}

	ctx := context.Background()
	factory := NewCalendarFactory(ctx, cfg, db)
	provider, calendarID, err := factory.CreateProvider()
	if err != nil {
		log.Fatalf("Error initializing calendar provider: %v", err)
	}

	now := time.Now().In(cfg.Location())
	events, err := provider.ListEvents(calendarID,
		now.AddDate(0, 0, -cleanupLookbackDays),
		now.AddDate(0, 0, cleanupLookbackDays))
	if err != nil {
		log.Fatalf("Error retrieving events: %v", err)
	}

	deleted := 0
	for _, event := range events {
		if !event.FromPronote() {
			continue
		}
		if cfg.Sync.DryRun {
			fmt.Printf("  🧪 [dry-run] would delete: %s\n", event.Summary)
			continue
		}
		if err := provider.DeleteEvent(calendarID, event.ID); err != nil {
			log.Printf("Error deleting event %q: %v", event.Summary, err)
			continue
		}
		printVerbosely(2, "  🗑 Deleted: %s\n", event.Summary)
		deleted++
	}

	fmt.Printf("✅ Cleanup completed, %d events deleted\n", deleted)
}
