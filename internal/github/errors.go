package github

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidURL is returned when a profile URL does not parse.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrNotGitHub is returned when the URL host is not github.com.
	ErrNotGitHub = errors.New("invalid GitHub URL")
	// ErrNoUsername is returned when the URL has no path segment.
	ErrNoUsername = errors.New("could not parse username")
	// ErrNoRepos is returned when a summary request names no repositories.
	ErrNoRepos = errors.New("provide 'repos' as array of full_name (owner/name)")
)

// APIError is a non-success response from the GitHub API.
type APIError struct {
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Status == http.StatusNotFound {
		return fmt.Sprintf("github: %s not found", e.Path)
	}
	return fmt.Sprintf("github: %s returned %d: %s", e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a GitHub 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
