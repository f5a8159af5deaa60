// Package types defines the JSON request and response bodies of the HTTP API.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their `label` tag, falling back to the
// JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req's validate tags and returns a readable error for the
// first failing field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s is required", fe.Field())
		}
		return fmt.Errorf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%s is too long (max %s)", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Errorf("%s must be a valid id", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "url", "http_url":
		return fmt.Errorf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

// GitHubProfileRequest asks for a GitHub profile import.
type GitHubProfileRequest struct {
	ProfileURL string `json:"profileUrl" validate:"required" label:"Profile URL"`
}

// SummarizeRequest lists repositories by full name (owner/name).
type SummarizeRequest struct {
	Repos []string `json:"repos" validate:"required,min=1"`
}

// SummarizeResponse maps each repository to its summary bullets.
type SummarizeResponse struct {
	Summaries map[string][]string `json:"summaries"`
}

// CreateResumeRequest is the body of POST /resumes.
type CreateResumeRequest struct {
	Title    string          `json:"title" validate:"required" label:"Title"`
	Template string          `json:"template" validate:"max=100" label:"Template"`
	Content  json.RawMessage `json:"content"`
}

// UpdateResumeRequest is the body of PUT /resumes. Only present fields change.
type UpdateResumeRequest struct {
	ID       string          `json:"id" validate:"required" label:"Resume ID"`
	Title    *string         `json:"title" validate:"omitempty,min=1,max=300" label:"Title"`
	Template *string         `json:"template" validate:"omitempty,max=100" label:"Template"`
	Content  json.RawMessage `json:"content"`
}

// UpdateUserRequest is the body of PUT /me.
type UpdateUserRequest struct {
	Name      string          `json:"name" validate:"max=200" label:"Name"`
	Email     string          `json:"email" validate:"omitempty,email" label:"Email"`
	AvatarURL string          `json:"avatarUrl" validate:"omitempty,url" label:"Avatar URL"`
	Settings  json.RawMessage `json:"settings"`
}

// SuccessResponse acknowledges a write.
type SuccessResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ResumeID string `json:"resumeId,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// PreviewResponse describes an uploaded resume without storing it.
type PreviewResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Format   string `json:"format"`
	Pages    int    `json:"pages"`
	Words    int    `json:"words"`
	Excerpt  string   `json:"excerpt"`
	Keywords []string `json:"keywords"`
}

// CoverLetterResponse carries a generated cover letter.
type CoverLetterResponse struct {
	CoverLetter string `json:"coverLetter"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
