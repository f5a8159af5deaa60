package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, title, template, content, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var content []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Template, &content, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Content = content
	return &r, nil
}

// CreateResume stores a new resume for userID.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, in ResumeInput) (*Resume, error) {
	content := []byte(in.Content)
	if len(content) == 0 {
		content = []byte("{}")
	}

	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, template, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		userID, in.Title, in.Template, content,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's resumes, most recently updated first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}

// GetResume returns the resume if userID owns it, otherwise nil.
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResume applies patch and bumps updated_at. It returns ErrNotFound
// when userID owns no such resume.
func (db *DB) UpdateResume(ctx context.Context, userID, id uuid.UUID, patch ResumePatch) (*Resume, error) {
	set, args := resumeUpdate(patch)
	args = append(args, id, userID)

	query := fmt.Sprintf(
		`UPDATE resumes SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		set, len(args)-1, len(args), resumeColumns,
	)
	r, err := scanResume(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// resumeUpdate builds the SET clause for patch. updated_at is always set.
func resumeUpdate(patch ResumePatch) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Template != nil {
		add("template", *patch.Template)
	}
	if patch.Content != nil {
		add("content", []byte(patch.Content))
	}
	sets = append(sets, "updated_at = NOW()")
	return strings.Join(sets, ", "), args
}

// DeleteResume removes a resume owned by userID.
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
