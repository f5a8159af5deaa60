package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultAnalysisLimit bounds ListAnalyses when no limit is given.
const DefaultAnalysisLimit = 20

// SaveAnalysis records a result for a.UserID and fills in its id and
// creation time.
func (db *DB) SaveAnalysis(ctx context.Context, a *Analysis) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO analyses (user_id, kind, job_title, company_name, score, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.UserID, a.Kind, a.JobTitle, a.CompanyName, a.Score, []byte(a.Content),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns the user's most recent analyses.
func (db *DB) ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = DefaultAnalysisLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, kind, job_title, company_name, score, content, created_at
		 FROM analyses WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		var a Analysis
		var content []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.JobTitle, &a.CompanyName, &a.Score, &content, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		a.Content = content
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return out, nil
}
