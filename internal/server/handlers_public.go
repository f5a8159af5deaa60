package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/ats"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/server/middleware"
	"github.com/jonathan/gitfolio/internal/types"
)

// bounds on what /preview returns
const (
	previewExcerptRunes = 500
	previewKeywords     = 10
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "Database"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.requestLog(r).Error("database ping failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  "Database unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
}

func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}

	resume, err := s.formFile(r, "resume")
	if err != nil && !errors.Is(err, errNoFile) {
		s.writeError(w, r, err)
		return
	}
	jobText := strings.TrimSpace(r.FormValue("jobDescription"))
	jobURL := strings.TrimSpace(r.FormValue("jobUrl"))
	if resume == nil || (jobText == "" && jobURL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Missing resume or job description")
		return
	}

	if jobText == "" {
		if s.jobs == nil {
			s.writeError(w, r, &ErrUnavailable{Feature: "Job URL fetching"})
			return
		}
		jobText, err = s.jobs.JobDescription(r.Context(), jobURL)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	doc, err := extract.Text(resume.Data, resume.MIMEType, resume.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := ats.Score(doc.Text, jobText, ats.DefaultOptions())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.requestLog(r).Debug("ats score computed",
		zap.Int("score", result.Score),
		zap.Int("matched", len(result.MatchedKeywords)),
		zap.Int("missing", len(result.MissingKeywords)))

	if userID, err := middleware.GetUserID(r); err == nil && s.store != nil {
		score := result.Score
		s.saveAnalysis(r, userID, db.AnalysisKeyword, r.FormValue("jobTitle"), r.FormValue("companyName"), &score, result)
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGitHubProfile(w http.ResponseWriter, r *http.Request) {
	var req types.GitHubProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	username, err := github.ParseProfileURL(req.ProfileURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.github.FetchProfile(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req types.SummarizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var verr *ErrValidation
		if errors.As(err, &verr) && verr.Field == "" {
			err = github.ErrNoRepos
		}
		s.writeError(w, r, err)
		return
	}

	summaries, err := s.github.SummarizeRepos(r.Context(), req.Repos)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SummarizeResponse{Summaries: summaries})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	file, err := s.formFile(r, "file")
	if errors.Is(err, errNoFile) {
		s.errorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := extract.Text(file.Data, file.MIMEType, file.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.PreviewResponse{
		Success:  true,
		FileName: file.Filename,
		FileSize: int64(len(file.Data)),
		Format:   string(doc.Format),
		Pages:    doc.Pages,
		Words:    len(strings.Fields(doc.Text)),
		Excerpt:  excerpt(doc.Text, previewExcerptRunes),
		Keywords: ats.Keywords(doc.Text, previewKeywords),
	})
}

// excerpt returns the first n runes of text with whitespace collapsed.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
