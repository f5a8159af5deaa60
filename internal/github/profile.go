package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Profile is the subset of a GitHub user shown on a portfolio.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Location    string `json:"location"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Repo is the subset of a repository listed on a portfolio.
type Repo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	UpdatedAt       string `json:"updated_at"`
	HTMLURL         string `json:"html_url"`
}

// ProfileResult bundles a profile with its repositories.
type ProfileResult struct {
	Profile Profile `json:"profile"`
	Repos   []Repo  `json:"repos"`
}

// apiUser mirrors /users/{u}; pointers distinguish null from zero.
type apiUser struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Location    *string `json:"location"`
	HTMLURL     string  `json:"html_url"`
	PublicRepos *int    `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
}

type apiRepo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	UpdatedAt       string  `json:"updated_at"`
	PushedAt        string  `json:"pushed_at"`
	HTMLURL         string  `json:"html_url"`
}

// ParseProfileURL extracts the username from a github.com profile URL.
func ParseProfileURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), "github.com") {
		return "", ErrNotGitHub
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return seg, nil
		}
	}
	return "", ErrNoUsername
}

// FetchProfile loads a user and their most recently updated repositories.
// Both requests run concurrently. A failed profile lookup takes precedence
// over a failed repo listing, so unknown users always report not found.
func (c *Client) FetchProfile(ctx context.Context, username string) (*ProfileResult, error) {
	if username == "" {
		return nil, ErrNoUsername
	}
	escaped := url.PathEscape(username)

	var (
		user              apiUser
		repos             []apiRepo
		userErr, reposErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		userErr = c.getJSON(ctx, "/users/"+escaped, &user)
		return nil
	})
	g.Go(func() error {
		reposErr = c.getJSON(ctx, "/users/"+escaped+"/repos?per_page=100&sort=updated", &repos)
		return nil
	})
	_ = g.Wait()

	if userErr != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", username, userErr)
	}
	if reposErr != nil {
		return nil, fmt.Errorf("failed to fetch repos for %s: %w", username, reposErr)
	}

	result := &ProfileResult{
		Repos: make([]Repo, 0, len(repos)),
	}
	for _, r := range repos {
		result.Repos = append(result.Repos, Repo{
			ID:              r.ID,
			Name:            r.Name,
			FullName:        r.FullName,
			Description:     deref(r.Description),
			Language:        deref(r.Language),
			StargazersCount: r.StargazersCount,
			ForksCount:      r.ForksCount,
			UpdatedAt:       r.UpdatedAt,
			HTMLURL:         r.HTMLURL,
		})
	}

	publicRepos := len(result.Repos)
	if user.PublicRepos != nil {
		publicRepos = *user.PublicRepos
	}
	result.Profile = Profile{
		Login:       user.Login,
		Name:        deref(user.Name),
		Bio:         deref(user.Bio),
		AvatarURL:   deref(user.AvatarURL),
		Location:    deref(user.Location),
		HTMLURL:     user.HTMLURL,
		PublicRepos: publicRepos,
		Followers:   user.Followers,
		Following:   user.Following,
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
