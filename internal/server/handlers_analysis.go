package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/server/middleware"
	"github.com/jonathan/gitfolio/internal/types"
)

// maxAnalysesLimit caps ?limit on GET /analyses.
const maxAnalysesLimit = 100

// analysisInput reads the multipart form shared by the AI analysis routes.
func (s *Server) analysisInput(w http.ResponseWriter, r *http.Request) (*analysis.Input, error) {
	if err := s.parseMultipart(w, r); err != nil {
		return nil, err
	}
	resume, err := s.formFile(r, "resume")
	if err != nil && !errors.Is(err, errNoFile) {
		return nil, err
	}
	jobText := strings.TrimSpace(r.FormValue("jobDescription"))
	if jobText == "" {
		if jobURL := strings.TrimSpace(r.FormValue("jobUrl")); jobURL != "" && s.jobs != nil {
			jobText, err = s.jobs.JobDescription(r.Context(), jobURL)
			if err != nil {
				return nil, err
			}
		}
	}
	if resume == nil || jobText == "" {
		return nil, &ErrValidation{Field: "resume", Message: "Missing resume or job description"}
	}

	return &analysis.Input{
		Resume:         resume.Data,
		ResumeMIME:     resume.MIMEType,
		ResumeName:     resume.Filename,
		JobDescription: jobText,
		CompanyName:    strings.TrimSpace(r.FormValue("companyName")),
		JobTitle:       strings.TrimSpace(r.FormValue("jobTitle")),
	}, nil
}

func (s *Server) handleAnalysisATS(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if s.analyzer == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "AI analysis"})
		return
	}
	in, err := s.analysisInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.analyzer.ATSReport(r.Context(), *in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	score := int(math.Round(report.OverallScore))
	s.saveAnalysis(r, userID, db.AnalysisATS, in.JobTitle, in.CompanyName, &score, report)
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleAnalysisCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if s.analyzer == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "AI analysis"})
		return
	}
	in, err := s.analysisInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	letter, err := s.analyzer.CoverLetter(r.Context(), *in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := types.CoverLetterResponse{CoverLetter: letter}
	s.saveAnalysis(r, userID, db.AnalysisCoverLetter, in.JobTitle, in.CompanyName, nil, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "Database"})
		return
	}

	limit := db.DefaultAnalysisLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAnalysesLimit)
	}

	analyses, err := s.store.ListAnalyses(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": analyses})
}

// saveAnalysis stores a result for the user. Failures are logged and do
// not fail the request that produced the result.
func (s *Server) saveAnalysis(r *http.Request, userID uuid.UUID, kind, jobTitle, company string, score *int, content any) {
	if s.store == nil {
		return
	}
	log := s.requestLog(r).With(zap.String("kind", kind), zap.String("user_id", userID.String()))

	data, err := json.Marshal(content)
	if err != nil {
		log.Warn("failed to encode analysis", zap.Error(err))
		return
	}
	if err := s.store.EnsureUser(r.Context(), userID); err != nil {
		log.Warn("failed to ensure user", zap.Error(err))
		return
	}
	a := &db.Analysis{
		UserID:      userID,
		Kind:        kind,
		JobTitle:    jobTitle,
		CompanyName: company,
		Score:       score,
		Content:     data,
	}
	if err := s.store.SaveAnalysis(r.Context(), a); err != nil {
		log.Warn("failed to save analysis", zap.Error(err))
		return
	}
	log.Debug("analysis saved", zap.String("analysis_id", a.ID.String()))
}
