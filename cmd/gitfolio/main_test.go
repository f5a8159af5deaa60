package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/server"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

// clearEnv unsets variables that would leak host configuration into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JWT_SECRET", "GITFOLIO_JWT_SECRET", "GEMINI_API_KEY", "GITFOLIO_GEMINI_API_KEY",
		"DATABASE_URL", "GITFOLIO_DATABASE_URL", "GITHUB_TOKEN", "GITFOLIO_GITHUB_TOKEN",
		"GITFOLIO_GITHUB_API_URL", "GITFOLIO_PORT",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTokenCommand(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	userID := uuid.New()

	out, err := execute(t, "token", "--user", userID.String())
	require.NoError(t, err)

	svc := server.NewJWTService(&config.JWTConfig{Secret: testSecret, ExpirationHours: 24})
	claims, err := svc.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestTokenCommand_Errors(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "token", "--user", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", testSecret)
	_, err = execute(t, "token", "--user", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user")
}

func TestScoreCommand_JSON(t *testing.T) {
	clearEnv(t)
	resume := writeFile(t, "resume.txt", "Go engineer with Kubernetes, Docker and PostgreSQL experience.")
	job := writeFile(t, "job.txt", "Hiring a Go engineer. Kubernetes and Terraform required.")

	out, err := execute(t, "score", "--resume", resume, "--job", job, "--json")
	require.NoError(t, err)

	var result struct {
		Score           int      `json:"score"`
		MatchedKeywords []string `json:"matchedKeywords"`
		MissingKeywords []string `json:"missingKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Greater(t, result.Score, 0)
	assert.Contains(t, result.MatchedKeywords, "kubernetes")
	assert.Contains(t, result.MissingKeywords, "terraform")
}

func TestScoreCommand_Printed(t *testing.T) {
	clearEnv(t)
	resume := writeFile(t, "resume.md", "Python data engineer, Airflow and Spark.")
	job := writeFile(t, "job.txt", "Data engineer with Spark and Kafka.")

	out, err := execute(t, "score", "--resume", resume, "--job", job)
	require.NoError(t, err)
	assert.Contains(t, out, "ATS KEYWORD SCORE")
	assert.Contains(t, out, "spark")
}

func TestScoreCommand_FlagErrors(t *testing.T) {
	clearEnv(t)
	resume := writeFile(t, "resume.txt", "Go engineer")
	job := writeFile(t, "job.txt", "Go engineer")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing resume", []string{"score", "--job", job}, `required flag(s) "resume" not set`},
		{"missing job", []string{"score", "--resume", resume}, "either --job or --job-url must be provided"},
		{"both job sources", []string{"score", "--resume", resume, "--job", job, "--job-url", "https://example.com"}, "mutually exclusive"},
		{"missing file", []string{"score", "--resume", filepath.Join(t.TempDir(), "nope.txt"), "--job", job}, "failed to read resume"},
		{"unsupported resume", []string{"score", "--resume", writeFile(t, "photo.png", "\x89PNG\r\n\x1a\n"), "--job", job}, "unsupported file type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGitHubCommand(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat":
			_, _ = w.Write([]byte(`{"login":"octocat","name":"The Octocat","public_repos":1}`))
		case "/users/octocat/repos":
			_, _ = w.Write([]byte(`[{"id":1,"name":"hello-world","full_name":"octocat/hello-world","language":"Go"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("GITFOLIO_GITHUB_API_URL", srv.URL)

	out, err := execute(t, "github", "--profile", "https://github.com/octocat", "--json")
	require.NoError(t, err)

	var body struct {
		Profile github.Profile `json:"profile"`
		Repos   []github.Repo  `json:"repos"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body), out)
	assert.Equal(t, "The Octocat", body.Profile.Name)
	require.Len(t, body.Repos, 1)
	assert.Equal(t, "octocat/hello-world", body.Repos[0].FullName)
}

func TestGitHubCommand_InvalidURL(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "github", "--profile", "https://gitlab.com/octocat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, github.ErrNotGitHub))
}

func TestAnalyzeCommand_RequiresGemini(t *testing.T) {
	clearEnv(t)
	resume := writeFile(t, "resume.txt", "Go engineer")
	job := writeFile(t, "job.txt", "Go engineer")

	for _, name := range []string{"analyze", "cover-letter"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name, "--resume", resume, "--job", job)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "GEMINI_API_KEY is required")
		})
	}
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestConfigFlag_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
