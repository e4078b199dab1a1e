package main

import "log"

func dbInit() {
	db, err := openDB(dbFileName)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	var dbVersion int
	err = db.QueryRow("SELECT version FROM db_version WHERE name='pronotecal'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			log.Fatalf("Error creating db_version table: %v", err)
		}
		_, err = db.Exec(`INSERT INTO db_version (name, version) VALUES ('pronotecal', 0)`)
		if err != nil {
			log.Fatalf("Error initializing db_version table: %v", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		// Tokens only. Reconciliation state lives in the calendar itself;
		// fingerprints are never persisted locally.
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			log.Fatalf("Error creating tokens table: %v", err)
		}

		dbVersion = 1
		_, err = db.Exec(`UPDATE db_version SET version = 1 WHERE name = 'pronotecal'`)
		if err != nil {
			log.Fatalf("Error updating db_version table: %v", err)
		}
	}
}
