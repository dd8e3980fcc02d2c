// Package testutil provides shared test helpers for setting up databases,
// services and seeded accounts.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mirrwin/daymark/internal/auth"
	"github.com/mirrwin/daymark/internal/models"
	"github.com/mirrwin/daymark/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "daymark-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedUser inserts a user with the given role and returns it. The password
// is always "password".
func SeedUser(t *testing.T, db *store.DB, username, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// SeedEvent inserts an event for the user and returns it.
func SeedEvent(t *testing.T, db *store.DB, userID string, ev models.Event) *models.Event {
	t.Helper()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.UserID = userID
	if ev.Type == "" {
		ev.Type = models.TypeCustom
	}
	if ev.Mode == "" {
		ev.Mode = models.RecurrenceNone
	}
	now := time.Now()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if err := db.CreateEvent(&ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return &ev
}
