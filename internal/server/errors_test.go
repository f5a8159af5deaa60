package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/ats"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/fetch"
	"github.com/jonathan/gitfolio/internal/github"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "title", Message: "Title is required"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", &ErrValidation{Message: "x"}), http.StatusBadRequest},
		{"unsupported file", &extract.UnsupportedTypeError{MIMEType: "image/png"}, http.StatusBadRequest},
		{"bad analysis input", fmt.Errorf("%w: missing", analysis.ErrInvalidInput), http.StatusBadRequest},
		{"bad github url", github.ErrNotGitHub, http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "Resume"}, http.StatusNotFound},
		{"db not found", db.ErrNotFound, http.StatusNotFound},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"no text", extract.ErrNoText, http.StatusUnprocessableEntity},
		{"empty document", fmt.Errorf("resume: %w", ats.ErrEmptyDocument), http.StatusUnprocessableEntity},
		{"github 404", &github.APIError{Status: 404}, http.StatusNotFound},
		{"github 403", &github.APIError{Status: 403}, http.StatusTooManyRequests},
		{"github 500", &github.APIError{Status: 500}, http.StatusBadGateway},
		{"fetch", &fetch.Error{URL: "https://x", Message: "status 500"}, http.StatusBadGateway},
		{"fetch private host", &fetch.Error{URL: "http://10.0.0.1", Message: "host not allowed", Cause: fetch.ErrForbiddenHost}, http.StatusBadRequest},
		{"empty model reply", analysis.ErrEmptyResponse, http.StatusBadGateway},
		{"unavailable", &ErrUnavailable{Feature: "Database"}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Title is required", errorMessage(&ErrValidation{Message: "Title is required"}))
	assert.Equal(t, "Resume not found", errorMessage(&ErrNotFound{Resource: "Resume"}))
	assert.Equal(t, "File too large (max 10 bytes)", errorMessage(&http.MaxBytesError{Limit: 10}))
	assert.Equal(t, "Internal server error", errorMessage(errors.New("pq: connection reset")))
	assert.Equal(t, "Upstream service error", errorMessage(&github.APIError{Status: 502}))
	assert.Equal(t, "Job URL must point to a public host",
		errorMessage(&fetch.Error{URL: "http://127.0.0.1", Message: "host not allowed", Cause: fetch.ErrForbiddenHost}))
}
