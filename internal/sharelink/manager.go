// Package sharelink issues and resolves expiring public share tokens.
package sharelink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/models"
	"github.com/mirrwin/daymark/internal/token"
)

// DefaultTTLDays is the share link lifetime used when the caller passes no TTL.
const DefaultTTLDays = 7

// maxTokenAttempts caps regeneration on token collisions. With 256-bit
// tokens more than one collision in a row means something other than bad
// luck is wrong, so give up instead of spinning.
const maxTokenAttempts = 5

// Store is the record-store surface the manager needs.
type Store interface {
	GetUserEvent(userID, id string) (*models.Event, error)
	GetEvent(id string) (*models.Event, error)
	CreateShareLink(l *models.ShareLink) error
	GetShareLink(token string) (*models.ShareLink, error)
}

// Manager issues tokens bound to one event and resolves them back to a
// freshly-computed countdown view.
type Manager struct {
	store      Store
	events     *eventservice.Service
	defaultTTL int
}

// NewManager creates a share link manager with the package default TTL.
func NewManager(store Store, events *eventservice.Service) *Manager {
	return &Manager{store: store, events: events, defaultTTL: DefaultTTLDays}
}

// WithDefaultTTL overrides the fallback lifetime for links issued without an
// explicit TTL. days <= 0 keeps the current value.
func (m *Manager) WithDefaultTTL(days int) *Manager {
	if days > 0 {
		m.defaultTTL = days
	}
	return m
}

// Issue creates a share link for an event owned by userID. ttlDays <= 0
// falls back to the manager default. The token comes from a cryptographically
// strong source; if the store rejects it as a duplicate we generate a fresh
// one rather than overwrite.
func (m *Manager) Issue(_ context.Context, userID, eventID string, ttlDays int, now time.Time) (*models.ShareLink, error) {
	if _, err := m.store.GetUserEvent(userID, eventID); err != nil {
		return nil, err
	}
	if ttlDays <= 0 {
		ttlDays = m.defaultTTL
	}

	var lastErr error
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := token.New()
		if err != nil {
			return nil, err
		}
		link := &models.ShareLink{
			Token:     tok,
			EventID:   eventID,
			ExpiresAt: now.AddDate(0, 0, ttlDays),
			CreatedAt: now,
		}
		err = m.store.CreateShareLink(link)
		if errors.Is(err, apperr.ErrAlreadyExists) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return link, nil
	}
	return nil, fmt.Errorf("sharelink: token collisions exhausted %d attempts: %w", maxTokenAttempts, lastErr)
}

// Resolve looks up a token and returns the bound event's view, recomputed
// against "now". Unknown tokens are NotFound; a token past its expiry is
// Expired, even by one second. No authentication is required.
func (m *Manager) Resolve(_ context.Context, tok string, now time.Time) (*eventservice.EventView, error) {
	link, err := m.store.GetShareLink(tok)
	if err != nil {
		return nil, err
	}
	if link.Expired(now) {
		return nil, apperr.ErrExpired
	}
	ev, err := m.store.GetEvent(link.EventID)
	if err != nil {
		return nil, err
	}
	view := m.events.View(ev, now)
	return &view, nil
}
