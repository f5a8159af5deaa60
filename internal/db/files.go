package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PutResumeFile stores or replaces the uploaded file of a resume owned by
// userID. It returns ErrNotFound when the resume is not theirs.
func (db *DB) PutResumeFile(ctx context.Context, userID uuid.UUID, f *ResumeFile) error {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO resume_files (resume_id, filename, mime_type, size_bytes, data)
		 SELECT r.id, $2, $3, $4, $5 FROM resumes r WHERE r.id = $1 AND r.user_id = $6
		 ON CONFLICT (resume_id) DO UPDATE SET
		   filename = EXCLUDED.filename,
		   mime_type = EXCLUDED.mime_type,
		   size_bytes = EXCLUDED.size_bytes,
		   data = EXCLUDED.data,
		   uploaded_at = NOW()`,
		f.ResumeID, f.Filename, f.MIMEType, int64(len(f.Data)), f.Data, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to store resume file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	f.SizeBytes = int64(len(f.Data))
	return nil
}

// GetResumeFile returns the stored file, or nil when the resume has none
// or is not owned by userID.
func (db *DB) GetResumeFile(ctx context.Context, userID, resumeID uuid.UUID) (*ResumeFile, error) {
	var f ResumeFile
	err := db.pool.QueryRow(ctx,
		`SELECT f.resume_id, f.filename, f.mime_type, f.size_bytes, f.data, f.uploaded_at
		 FROM resume_files f JOIN resumes r ON r.id = f.resume_id
		 WHERE f.resume_id = $1 AND r.user_id = $2`,
		resumeID, userID,
	).Scan(&f.ResumeID, &f.Filename, &f.MIMEType, &f.SizeBytes, &f.Data, &f.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume file: %w", err)
	}
	return &f, nil
}
