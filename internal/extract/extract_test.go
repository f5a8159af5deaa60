package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		filename string
		data     []byte
		want     Format
	}{
		{"declared pdf", MIMEPDF, "cv", nil, FormatPDF},
		{"declared docx", MIMEDOCX, "cv", nil, FormatDOCX},
		{"declared text with charset", "text/plain; charset=utf-8", "cv", nil, FormatText},
		{"octet stream with pdf extension", "application/octet-stream", "resume.PDF", nil, FormatPDF},
		{"no type docx extension", "", "resume.docx", nil, FormatDOCX},
		{"sniffed pdf", "application/octet-stream", "upload", []byte("%PDF-1.7\n..."), FormatPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.data, tt.mimeType, tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	_, err := DetectFormat([]byte{0x89, 'P', 'N', 'G'}, "image/png", "photo.png")
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image/png", unsupported.MIMEType)
	assert.Contains(t, err.Error(), "photo.png")
}

func TestText_PlainText(t *testing.T) {
	doc, err := Text([]byte("\xef\xbb\xbfJane Doe\nGo developer"), MIMEText, "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "Jane Doe\nGo developer", doc.Text)
	assert.Equal(t, 1, doc.Pages)
}

func TestText_Blank(t *testing.T) {
	_, err := Text([]byte("  \n\t "), MIMEText, "cv.txt")
	assert.ErrorIs(t, err, ErrNoText)
}

func TestText_InvalidPDF(t *testing.T) {
	_, err := Text([]byte("not a pdf at all"), MIMEPDF, "cv.pdf")
	assert.Error(t, err)
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Skills: </w:t></w:r><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestDocumentXMLText(t *testing.T) {
	text, err := documentXMLText(documentXML)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Go\tSQL\n", text)
}

func TestText_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	doc, err := Text(buf.Bytes(), MIMEDOCX, "cv.docx")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Contains(t, doc.Text, "Jane Doe")
	assert.Contains(t, doc.Text, "Skills: Go")
}
