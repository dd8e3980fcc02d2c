package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/mirrwin/daymark/internal/apperr"
	"github.com/mirrwin/daymark/internal/models"
)

// CreateUser inserts a new user. Returns apperr.ErrAlreadyExists when the
// username is taken.
func (db *DB) CreateUser(u *models.User) error {
	_, err := db.conn.Exec(`
		INSERT INTO users (id, username, password_hash, nickname, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.PasswordHash, u.Nickname, u.Role, u.CreatedAt)
	if isUniqueErr(err) {
		return apperr.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// GetUser returns a user by id.
func (db *DB) GetUser(id string) (*models.User, error) {
	return db.scanUser(db.conn.QueryRow(`
		SELECT id, username, password_hash, nickname, role, created_at
		FROM users WHERE id = ?
	`, id))
}

// GetUserByUsername returns a user by username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	return db.scanUser(db.conn.QueryRow(`
		SELECT id, username, password_hash, nickname, role, created_at
		FROM users WHERE username = ?
	`, username))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Nickname, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan user: %w", err)
	}
	return &u, nil
}

// UpdateUserProfile updates nickname and password hash. An empty hash keeps
// the current password.
func (db *DB) UpdateUserProfile(id, nickname, passwordHash string) error {
	var res sql.Result
	var err error
	if passwordHash == "" {
		res, err = db.conn.Exec(`UPDATE users SET nickname = ? WHERE id = ?`, nickname, id)
	} else {
		res, err = db.conn.Exec(`UPDATE users SET nickname = ?, password_hash = ? WHERE id = ?`, nickname, passwordHash, id)
	}
	if err != nil {
		return fmt.Errorf("store: update user: %w", err)
	}
	return requireRow(res)
}

// UpdateUserRole changes a user's role.
func (db *DB) UpdateUserRole(id, role string) error {
	res, err := db.conn.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("store: update role: %w", err)
	}
	return requireRow(res)
}

// DeleteUser removes a user; events and their share links cascade.
func (db *DB) DeleteUser(id string) error {
	res, err := db.conn.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete user: %w", err)
	}
	return requireRow(res)
}

// ListUsers returns every user with their event count, newest first.
func (db *DB) ListUsers() ([]models.UserSummary, error) {
	rows, err := db.conn.Query(`
		SELECT u.id, u.username, u.password_hash, u.nickname, u.role, u.created_at,
		       COUNT(e.id)
		FROM users u
		LEFT JOIN events e ON e.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var out []models.UserSummary
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.PasswordHash, &s.Nickname, &s.Role, &s.CreatedAt, &s.EventCount); err != nil {
			return nil, fmt.Errorf("store: scan user summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// isUniqueErr matches primary-key and unique-index violations only. A
// foreign-key violation is a different condition (the referenced row is
// gone) and must never be reported as AlreadyExists: callers treat that
// sentinel as "regenerate and retry".
func isUniqueErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
