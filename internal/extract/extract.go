// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Format identifies a supported document format.
type Format string

const (
	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word-processing document.
	FormatDOCX Format = "docx"
	// FormatText is plain UTF-8 text.
	FormatText Format = "text"
)

// MIME types accepted for resume uploads.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"
)

// ErrNoText is returned when a document parses but contains no text.
var ErrNoText = errors.New("document contains no extractable text")

// UnsupportedTypeError reports a file type that cannot be read.
type UnsupportedTypeError struct {
	MIMEType string
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (%s)", e.MIMEType, e.Filename)
}

// Document is the text content of an uploaded file.
type Document struct {
	Text   string `json:"text"`
	Pages  int    `json:"pages"`
	Format Format `json:"format"`
}

// Text extracts text from data. The declared MIME type wins; when it is
// empty or generic the file extension and then the content are sniffed.
func Text(data []byte, mimeType, filename string) (*Document, error) {
	format, err := DetectFormat(data, mimeType, filename)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch format {
	case FormatPDF:
		doc, err = fromPDF(data)
	case FormatDOCX:
		doc, err = fromDOCX(data)
	case FormatText:
		doc = &Document{Text: string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), Pages: 1}
	}
	if err != nil {
		return nil, err
	}
	doc.Format = format

	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrNoText
	}
	return doc, nil
}

// DetectFormat resolves the document format for an upload.
func DetectFormat(data []byte, mimeType, filename string) (Format, error) {
	if f, ok := formatForMIME(mimeType); ok {
		return f, nil
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if f, ok := formatForMIME(mime.TypeByExtension(ext)); ok {
			return f, nil
		}
		switch ext {
		case ".pdf":
			return FormatPDF, nil
		case ".docx":
			return FormatDOCX, nil
		case ".txt", ".md":
			return FormatText, nil
		}
	}

	if isGeneric(mimeType) && len(data) > 0 {
		if f, ok := formatForMIME(http.DetectContentType(data)); ok {
			return f, nil
		}
	}

	return "", &UnsupportedTypeError{MIMEType: mimeType, Filename: filename}
}

func formatForMIME(mimeType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case MIMEPDF:
		return FormatPDF, true
	case MIMEDOCX:
		return FormatDOCX, true
	case MIMEText, "text/markdown":
		return FormatText, true
	}
	return "", false
}

func isGeneric(mimeType string) bool {
	mediaType, _, _ := mime.ParseMediaType(mimeType)
	return mediaType == "" || mediaType == "application/octet-stream"
}
