package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/ats"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/fetch"
	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrNotFound indicates a missing or foreign resource.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrUnavailable indicates a feature whose backing service is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		notFound    *ErrNotFound
		unavailable *ErrUnavailable
		unsupported *extract.UnsupportedTypeError
		apiErr      *github.APIError
		fetchErr    *fetch.Error
		schemaErr   *schemas.ValidationError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation),
		errors.As(err, &unsupported),
		errors.Is(err, analysis.ErrInvalidInput),
		errors.Is(err, github.ErrInvalidURL),
		errors.Is(err, github.ErrNotGitHub),
		errors.Is(err, github.ErrNoUsername),
		errors.Is(err, github.ErrNoRepos),
		errors.Is(err, fetch.ErrForbiddenHost):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrNoText),
		errors.Is(err, ats.ErrEmptyDocument),
		errors.Is(err, fetch.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusNotFound:
			return http.StatusNotFound
		case http.StatusForbidden, http.StatusTooManyRequests:
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	case errors.As(err, &fetchErr),
		errors.As(err, &schemaErr),
		errors.Is(err, analysis.ErrEmptyResponse):
		return http.StatusBadGateway
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text for err. Internal errors are not
// described.
func errorMessage(err error) string {
	var (
		unsupported *extract.UnsupportedTypeError
		tooLarge    *http.MaxBytesError
		fetchErr    *fetch.Error
		schemaErr   *schemas.ValidationError
	)
	switch {
	case errors.As(err, &unsupported):
		return "Unsupported file type"
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("File too large (max %d bytes)", tooLarge.Limit)
	case errors.Is(err, github.ErrInvalidURL):
		return "Invalid URL"
	case errors.Is(err, github.ErrNotGitHub):
		return "Invalid GitHub URL"
	case errors.Is(err, github.ErrNoUsername):
		return "Could not parse username"
	case errors.Is(err, github.ErrNoRepos):
		return "Provide 'repos' as array of full_name (owner/name)"
	case github.IsNotFound(err):
		return "GitHub user not found"
	case errors.Is(err, extract.ErrNoText):
		return "Could not extract text from file"
	case errors.Is(err, ats.ErrEmptyDocument):
		return "Resume or job description has no scorable text"
	case errors.Is(err, fetch.ErrForbiddenHost):
		return "Job URL must point to a public host"
	case errors.As(err, &fetchErr), errors.Is(err, fetch.ErrNoContent):
		return "Could not fetch job description"
	case errors.As(err, &schemaErr), errors.Is(err, analysis.ErrEmptyResponse):
		return "AI analysis returned an unusable response"
	}

	status := HTTPStatus(err)
	switch {
	case status == http.StatusInternalServerError:
		return "Internal server error"
	case status == http.StatusBadGateway:
		return "Upstream service error"
	case status == http.StatusTooManyRequests:
		return "GitHub rate limit exceeded"
	}
	return err.Error()
}
