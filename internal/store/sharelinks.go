package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/models"
)

// CreateShareLink inserts a new share link. A token collision is rejected by
// the primary key and surfaces as apperr.ErrAlreadyExists; the caller may
// regenerate and retry. An event deleted between the caller's ownership
// check and the insert trips the foreign key and is NotFound, never a
// retryable collision.
func (db *DB) CreateShareLink(l *models.ShareLink) error {
	_, err := db.conn.Exec(`
		INSERT INTO share_links (token, event_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, l.Token, l.EventID, l.ExpiresAt, l.CreatedAt)
	if isUniqueErr(err) {
		return apperr.ErrAlreadyExists
	}
	if isForeignKeyErr(err) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: create share link: %w", err)
	}
	return nil
}

// GetShareLink returns a share link by token.
func (db *DB) GetShareLink(token string) (*models.ShareLink, error) {
	var l models.ShareLink
	err := db.conn.QueryRow(`
		SELECT token, event_id, expires_at, created_at
		FROM share_links WHERE token = ?
	`, token).Scan(&l.Token, &l.EventID, &l.ExpiresAt, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get share link: %w", err)
	}
	return &l, nil
}
