package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/models"
)

const eventColumns = `id, user_id, title, date, type, description, mode,
	lunar_month, lunar_day, is_pinned, remind_days, created_at, updated_at`

// CreateEvent inserts a new event.
func (db *DB) CreateEvent(e *models.Event) error {
	_, err := db.conn.Exec(`
		INSERT INTO events (id, user_id, title, date, type, description, mode,
			lunar_month, lunar_day, is_pinned, remind_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Title, e.Date, e.Type, e.Description, string(e.Mode),
		e.LunarMonth, e.LunarDay, e.IsPinned, e.RemindDays, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: create event: %w", err)
	}
	return nil
}

// GetEvent returns an event by id regardless of owner.
func (db *DB) GetEvent(id string) (*models.Event, error) {
	return scanEvent(db.conn.QueryRow(`
		SELECT `+eventColumns+` FROM events WHERE id = ?
	`, id))
}

// GetUserEvent returns an event only if it belongs to the given user.
// Absent and unowned are indistinguishable to the caller, both are NotFound.
func (db *DB) GetUserEvent(userID, id string) (*models.Event, error) {
	return scanEvent(db.conn.QueryRow(`
		SELECT `+eventColumns+` FROM events WHERE id = ? AND user_id = ?
	`, id, userID))
}

// ListEvents returns a user's events, optionally filtered by type.
// An empty or "ALL" filter returns everything.
func (db *DB) ListEvents(userID, typeFilter string) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = ?`
	args := []any{userID}
	if typeFilter != "" && typeFilter != "ALL" {
		query += ` AND type = ?`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY date ASC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListAllEvents returns every event with the owner's username attached,
// newest first. Admin use only.
func (db *DB) ListAllEvents() ([]*models.Event, map[string]string, error) {
	rows, err := db.conn.Query(`
		SELECT e.id, e.user_id, e.title, e.date, e.type, e.description, e.mode,
		       e.lunar_month, e.lunar_day, e.is_pinned, e.remind_days,
		       e.created_at, e.updated_at, u.username
		FROM events e
		JOIN users u ON u.id = e.user_id
		ORDER BY e.created_at DESC
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("store: list all events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	owners := make(map[string]string)
	for rows.Next() {
		var e models.Event
		var mode, username string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Date, &e.Type, &e.Description,
			&mode, &e.LunarMonth, &e.LunarDay, &e.IsPinned, &e.RemindDays,
			&e.CreatedAt, &e.UpdatedAt, &username); err != nil {
			return nil, nil, fmt.Errorf("store: scan event: %w", err)
		}
		e.Mode = models.RecurrenceMode(mode)
		events = append(events, &e)
		owners[e.ID] = username
	}
	return events, owners, rows.Err()
}

// UpdateEvent rewrites all mutable fields of an event.
func (db *DB) UpdateEvent(e *models.Event) error {
	res, err := db.conn.Exec(`
		UPDATE events
		SET title = ?, date = ?, type = ?, description = ?, mode = ?,
		    lunar_month = ?, lunar_day = ?, is_pinned = ?, remind_days = ?,
		    updated_at = ?
		WHERE id = ?
	`, e.Title, e.Date, e.Type, e.Description, string(e.Mode),
		e.LunarMonth, e.LunarDay, e.IsPinned, e.RemindDays, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("store: update event: %w", err)
	}
	return requireRow(res)
}

// DeleteEvent removes an event; its share links cascade.
func (db *DB) DeleteEvent(id string) error {
	res, err := db.conn.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete event: %w", err)
	}
	return requireRow(res)
}

func scanEvent(row *sql.Row) (*models.Event, error) {
	var e models.Event
	var mode string
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Date, &e.Type, &e.Description,
		&mode, &e.LunarMonth, &e.LunarDay, &e.IsPinned, &e.RemindDays,
		&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan event: %w", err)
	}
	e.Mode = models.RecurrenceMode(mode)
	return &e, nil
}

func collectEvents(rows *sql.Rows) ([]*models.Event, error) {
	var out []*models.Event
	for rows.Next() {
		var e models.Event
		var mode string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Date, &e.Type, &e.Description,
			&mode, &e.LunarMonth, &e.LunarDay, &e.IsPinned, &e.RemindDays,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan event: %w", err)
		}
		e.Mode = models.RecurrenceMode(mode)
		out = append(out, &e)
	}
	return out, rows.Err()
}
