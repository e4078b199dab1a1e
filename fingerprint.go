package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// contentHash derives the idempotency fingerprint of a homework assignment.
// Subject and description are trimmed and lowercased so Pronote's inconsistent
// casing does not produce spurious new events. The digest is one-way: the
// calendar only ever stores the hex string, never the hashed content.
func contentHash(subject string, dueDate time.Time, description string) string {
	content := fmt.Sprintf("%s|%s|%s",
		normalizeForHash(subject),
		dueDate.Format("2006-01-02"),
		normalizeForHash(description))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// examContentHash is the exam variant. The "exam|" prefix and the trailing
// data-source discriminator (evaluation vs grade) keep exam fingerprints
// disjoint from homework fingerprints for the same subject/date/description.
func examContentHash(subject string, examDate time.Time, description, source string) string {
	content := fmt.Sprintf("exam|%s|%s|%s|%s",
		normalizeForHash(subject),
		examDate.Format("2006-01-02"),
		normalizeForHash(description),
		source)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func normalizeForHash(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
