package models

import "time"

// ShareLink grants time-limited unauthenticated read access to one event.
// The token is opaque and unguessable; many links may point at the same
// event, and a link dies with its event (FK cascade in the store).
type ShareLink struct {
	Token     string    `json:"token"`
	EventID   string    `json:"eventId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the link is past its expiry at the given instant.
// Expiry is timestamp-based, never calendar-day based: one second past
// ExpiresAt is expired.
func (l *ShareLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
