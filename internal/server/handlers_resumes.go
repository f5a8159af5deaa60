package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/server/middleware"
	"github.com/jonathan/gitfolio/internal/types"
)

// defaultTemplate is stored when a resume is created without one.
const defaultTemplate = "modern"

// authedStore returns the caller's id and the store, or writes the error
// response and reports false.
func (s *Server) authedStore(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	if s.store == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "Database"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseResumeID(raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "Resume ID is required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// ids that cannot exist are reported like foreign ones
		return uuid.Nil, &ErrNotFound{Resource: "Resume"}
	}
	return id, nil
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "User"})
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.UpsertUser(r.Context(), userID, db.UserInput{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Settings:  req.Settings,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"userId":  user.ID.String(),
		"message": "User data saved successfully",
		"user":    user,
	})
}

func (s *Server) handleGetResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}

	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := parseResumeID(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resume, err := s.store.GetResume(r.Context(), userID, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if resume == nil {
			s.writeError(w, r, &ErrNotFound{Resource: "Resume"})
			return
		}
		s.jsonResponse(w, http.StatusOK, resume)
		return
	}

	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	var req types.CreateResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		s.writeError(w, r, &ErrValidation{Field: "title", Message: "Title is required"})
		return
	}
	template := req.Template
	if template == "" {
		template = defaultTemplate
	}

	if err := s.store.EnsureUser(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := s.store.CreateResume(r.Context(), userID, db.ResumeInput{
		Title:    title,
		Template: template,
		Content:  req.Content,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SuccessResponse{
		Success:  true,
		ResumeID: resume.ID.String(),
		Message:  "Resume created successfully",
	})
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	var req types.UpdateResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := parseResumeID(req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, err = s.store.UpdateResume(r.Context(), userID, id, db.ResumePatch{
		Title:    req.Title,
		Template: req.Template,
		Content:  req.Content,
	})
	if err != nil {
		s.writeError(w, r, notFoundAs(err, "Resume"))
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SuccessResponse{
		Success: true,
		Message: "Resume updated successfully",
	})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	id, err := parseResumeID(r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteResume(r.Context(), userID, id); err != nil {
		s.writeError(w, r, notFoundAs(err, "Resume"))
		return
	}
	s.jsonResponse(w, http.StatusOK, types.SuccessResponse{
		Success: true,
		Message: "Resume deleted successfully",
	})
}

func (s *Server) handleUploadResumeFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	id, err := parseResumeID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
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

	format, err := extract.DetectFormat(file.Data, file.MIMEType, file.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rf := &db.ResumeFile{
		ResumeID:  id,
		Filename:  file.Filename,
		MIMEType:  formatMIME(format),
		SizeBytes: int64(len(file.Data)),
		Data:      file.Data,
	}
	if err := s.store.PutResumeFile(r.Context(), userID, rf); err != nil {
		s.writeError(w, r, notFoundAs(err, "Resume"))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "File uploaded successfully",
		"file":    rf,
	})
}

func (s *Server) handleDownloadResumeFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedStore(w, r)
	if !ok {
		return
	}
	id, err := parseResumeID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.store.GetResumeFile(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if f == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "Resume file"})
		return
	}

	w.Header().Set("Content-Type", f.MIMEType)
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(f.Data)), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

// notFoundAs names the resource in a store not-found error.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, db.ErrNotFound) {
		return &ErrNotFound{Resource: resource}
	}
	return err
}

func formatMIME(f extract.Format) string {
	switch f {
	case extract.FormatPDF:
		return extract.MIMEPDF
	case extract.FormatDOCX:
		return extract.MIMEDOCX
	default:
		return extract.MIMEText
	}
}
