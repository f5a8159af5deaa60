package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is a profile keyed by the id in the caller's access token.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	AvatarURL string          `json:"avatarUrl"`
	Settings  json.RawMessage `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UserInput is the writable part of a User. A nil Settings keeps the
// stored settings (or the defaults for a new user).
type UserInput struct {
	Name      string
	Email     string
	AvatarURL string
	Settings  json.RawMessage
}

// Resume is a saved resume document.
type Resume struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Title     string          `json:"title"`
	Template  string          `json:"template"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ResumeInput holds the fields for a new resume.
type ResumeInput struct {
	Title    string
	Template string
	Content  json.RawMessage
}

// ResumePatch lists the fields to change on a resume; nil fields are kept.
type ResumePatch struct {
	Title    *string
	Template *string
	Content  json.RawMessage
}

// Empty reports whether the patch changes nothing.
func (p ResumePatch) Empty() bool {
	return p.Title == nil && p.Template == nil && p.Content == nil
}

// ResumeFile is the uploaded original of a resume.
type ResumeFile struct {
	ResumeID   uuid.UUID `json:"resumeId"`
	Filename   string    `json:"filename"`
	MIMEType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Data       []byte    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Analysis kinds stored in the analyses table.
const (
	AnalysisATS         = "ats"
	AnalysisCoverLetter = "cover_letter"
	AnalysisKeyword     = "keyword"
)

// Analysis is a stored scoring or AI review result.
type Analysis struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Kind        string          `json:"kind"`
	JobTitle    string          `json:"jobTitle"`
	CompanyName string          `json:"companyName"`
	Score       *int            `json:"score,omitempty"`
	Content     json.RawMessage `json:"content"`
	CreatedAt   time.Time       `json:"createdAt"`
}
