package main

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestContentHash_Deterministic(t *testing.T) {
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	h1 := contentHash("Math", due, "Ch.5 exercises")
	h2 := contentHash("Math", due, "Ch.5 exercises")

	assert.Equal(t, h1, h2)
	assert.Regexp(t, hexDigest, h1)
}

func TestContentHash_SensitiveToEachField(t *testing.T) {
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	base := contentHash("Math", due, "Ch.5 exercises")

	assert.NotEqual(t, base, contentHash("Physics", due, "Ch.5 exercises"))
	assert.NotEqual(t, base, contentHash("Math", due.AddDate(0, 0, 1), "Ch.5 exercises"))
	assert.NotEqual(t, base, contentHash("Math", due, "Ch.6 exercises"))
}

func TestContentHash_NormalizesCaseAndWhitespace(t *testing.T) {
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t,
		contentHash("Math", due, "Ch.5 exercises"),
		contentHash("  MATH ", due, " ch.5 EXERCISES  "))
}

func TestContentHash_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 20, 30, 0, 0, time.UTC)

	assert.Equal(t,
		contentHash("Math", morning, "Ch.5 exercises"),
		contentHash("Math", evening, "Ch.5 exercises"))
}

func TestExamContentHash_DisjointFromHomework(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	homework := contentHash("Math", date, "Contrôle chapitre 5")
	exam := examContentHash("Math", date, "Contrôle chapitre 5", "evaluation")

	assert.NotEqual(t, homework, exam)
	assert.Regexp(t, hexDigest, exam)
}

func TestExamContentHash_SensitiveToDataSource(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.NotEqual(t,
		examContentHash("Math", date, "Contrôle", "evaluation"),
		examContentHash("Math", date, "Contrôle", "grade"))
}
