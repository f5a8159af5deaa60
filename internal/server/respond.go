package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/types"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, types.ErrorResponse{Error: message})
}

// writeError maps err to a status and message. Server-side failures are
// logged with the request id.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.requestLog(r).Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.requestLog(r).Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, errorMessage(err))
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "Request body is required"}
		}
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("Invalid JSON: %v", err)}
	}
	if err := types.Validate(dst); err != nil {
		return &ErrValidation{Message: err.Error()}
	}
	return nil
}
