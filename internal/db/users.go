package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, avatar_url, settings, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var settings []byte
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &settings, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Settings = settings
	return &u, nil
}

// UpsertUser creates the user or updates the profile fields. New users get
// the default settings unless in.Settings is given.
func (db *DB) UpsertUser(ctx context.Context, id uuid.UUID, in UserInput) (*User, error) {
	var settings []byte
	if len(in.Settings) > 0 {
		settings = in.Settings
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, avatar_url, settings)
		 VALUES ($1, $2, $3, $4, COALESCE($5::jsonb, '{"theme": "light", "notifications": true}'::jsonb))
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   email = EXCLUDED.email,
		   avatar_url = EXCLUDED.avatar_url,
		   settings = COALESCE($5::jsonb, users.settings),
		   updated_at = NOW()
		 RETURNING `+userColumns,
		id, in.Name, in.Email, in.AvatarURL, settings,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return u, nil
}

// EnsureUser creates an empty profile for id if none exists yet.
func (db *DB) EnsureUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// GetUser returns the user, or nil if none exists.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the user and everything they own.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
