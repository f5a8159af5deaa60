package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/schemas"
)

func analysisForm() map[string]string {
	return map[string]string{
		"jobDescription": testJob,
		"companyName":    "Acme",
		"jobTitle":       "Platform Engineer",
	}
}

func TestAnalysisATS(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.report = &analysis.ATSReport{
		OverallScore: 78,
		KeywordAnalysis: analysis.KeywordAnalysis{
			KeywordsMatched: []string{"Go", "Kubernetes"},
			KeywordsMissing: []string{"Terraform"},
		},
	}
	userID := uuid.New()

	req := multipartRequest(t, http.MethodPost, "/analysis/ats", analysisForm(), resumeFile(testResume))
	rec := env.do(withAuth(req, env.token(t, userID)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analysis.ATSReport
	decodeBody(t, rec, &report)
	assert.Equal(t, 78.0, report.OverallScore)
	assert.Equal(t, []string{"Terraform"}, report.KeywordAnalysis.KeywordsMissing)

	assert.Equal(t, "Acme", env.analyzer.got.CompanyName)
	assert.Equal(t, "Platform Engineer", env.analyzer.got.JobTitle)
	assert.Equal(t, "resume.txt", env.analyzer.got.ResumeName)
	assert.Equal(t, []byte(testResume), env.analyzer.got.Resume)

	saved := env.store.savedAnalyses()
	require.Len(t, saved, 1)
	assert.Equal(t, db.AnalysisATS, saved[0].Kind)
	assert.Equal(t, userID, saved[0].UserID)
	require.NotNil(t, saved[0].Score)
	assert.Equal(t, 78, *saved[0].Score)
	assert.Equal(t, "Acme", saved[0].CompanyName)

	var content analysis.ATSReport
	require.NoError(t, json.Unmarshal(saved[0].Content, &content))
	assert.Equal(t, 78.0, content.OverallScore)
}

func TestAnalysisCoverLetter(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.letter = "Dear Hiring Manager,\n\nI am excited to apply."
	userID := uuid.New()

	req := multipartRequest(t, http.MethodPost, "/analysis/cover-letter", analysisForm(), resumeFile(testResume))
	rec := env.do(withAuth(req, env.token(t, userID)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		CoverLetter string `json:"coverLetter"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, env.analyzer.letter, body.CoverLetter)

	saved := env.store.savedAnalyses()
	require.Len(t, saved, 1)
	assert.Equal(t, db.AnalysisCoverLetter, saved[0].Kind)
	assert.Nil(t, saved[0].Score)
}

func TestAnalysis_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/analysis/ats", "/analysis/cover-letter"} {
		t.Run(path, func(t *testing.T) {
			rec := env.do(multipartRequest(t, http.MethodPost, path, analysisForm(), resumeFile(testResume)))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", errorBody(t, rec))
		})
	}

	rec := env.do(withAuth(
		multipartRequest(t, http.MethodPost, "/analysis/ats", analysisForm(), resumeFile(testResume)),
		"not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		files   []formPart
		err     error
		status  int
		message string
	}{
		{
			name:    "missing resume",
			fields:  analysisForm(),
			status:  http.StatusBadRequest,
			message: "Missing resume or job description",
		},
		{
			name:    "missing job",
			fields:  map[string]string{"companyName": "Acme"},
			files:   []formPart{resumeFile(testResume)},
			status:  http.StatusBadRequest,
			message: "Missing resume or job description",
		},
		{
			name:    "model returned garbage",
			fields:  analysisForm(),
			files:   []formPart{resumeFile(testResume)},
			err:     fmt.Errorf("report: %w", &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: "bad"}}}),
			status:  http.StatusBadGateway,
			message: "AI analysis returned an unusable response",
		},
		{
			name:    "invalid input",
			fields:  analysisForm(),
			files:   []formPart{resumeFile(testResume)},
			err:     fmt.Errorf("%w: JobTitle is too long", analysis.ErrInvalidInput),
			status:  http.StatusBadRequest,
		},
		{
			name:    "model failure",
			fields:  analysisForm(),
			files:   []formPart{resumeFile(testResume)},
			err:     fmt.Errorf("failed to generate content: boom"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.analyzer.err = tt.err
			req := multipartRequest(t, http.MethodPost, "/analysis/ats", tt.fields, tt.files...)
			rec := env.do(withAuth(req, env.token(t, uuid.New())))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.message != "" {
				assert.Equal(t, tt.message, errorBody(t, rec))
			}
			assert.Empty(t, env.store.savedAnalyses())
		})
	}
}

func TestAnalysis_NotConfigured(t *testing.T) {
	jwtSvc := newTestJWTService(24)
	s := New(Config{}, Deps{Store: newMockStore(), JWT: jwtSvc})
	token, err := jwtSvc.GenerateToken(uuid.New())
	require.NoError(t, err)

	req := withAuth(multipartRequest(t, http.MethodPost, "/analysis/ats", analysisForm(), resumeFile(testResume)), token)
	rec := httptestRecord(s, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AI analysis is not configured", errorBody(t, rec))
}

func TestListAnalyses(t *testing.T) {
	env := newTestEnv(t)
	userID, otherID := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		score := 50 + i
		require.NoError(t, env.store.SaveAnalysis(context.Background(), &db.Analysis{
			UserID: userID, Kind: db.AnalysisKeyword, Score: &score, Content: json.RawMessage(`{}`),
		}))
	}
	require.NoError(t, env.store.SaveAnalysis(context.Background(), &db.Analysis{
		UserID: otherID, Kind: db.AnalysisATS, Content: json.RawMessage(`{}`),
	}))

	rec := env.do(withAuth(jsonRequest(t, http.MethodGet, "/analyses?limit=2", nil), env.token(t, userID)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Analyses []db.Analysis `json:"analyses"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Analyses, 2)
	assert.Equal(t, 52, *body.Analyses[0].Score)
	for _, a := range body.Analyses {
		assert.Equal(t, userID, a.UserID)
	}

	rec = env.do(withAuth(jsonRequest(t, http.MethodGet, "/analyses?limit=abc", nil), env.token(t, userID)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit must be a positive integer", errorBody(t, rec))
}
