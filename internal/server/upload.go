package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// upload is a file received in a multipart form.
type upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// errNoFile is returned by formFile when the field is absent.
var errNoFile = errors.New("no file in form")

// parseMultipart caps the request body at the upload limit plus room for
// the other form fields and parses it.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+maxJSONBody)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "Expected multipart/form-data"}
	}
	return nil
}

// formFile reads field from an already parsed multipart form.
func (s *Server) formFile(r *http.Request, field string) (*upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, errNoFile
		}
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUpload {
		return nil, &http.MaxBytesError{Limit: s.maxUpload}
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, &http.MaxBytesError{Limit: s.maxUpload}
	}
	if len(data) == 0 {
		return nil, errNoFile
	}

	return &upload{
		Filename: header.Filename,
		MIMEType: partMIMEType(header),
		Data:     data,
	}, nil
}

func partMIMEType(h *multipart.FileHeader) string {
	return strings.TrimSpace(h.Header.Get("Content-Type"))
}
