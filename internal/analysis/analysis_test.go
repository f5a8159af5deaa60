package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/schemas"
)

type fakeClient struct {
	reply string
	err   error
	got   []llm.Request
}

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	f.got = append(f.got, req)
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

const reportJSON = `{
  "overallScore": 112.4,
  "keywordAnalysis": {
    "keywordsMatched": ["Go", "PostgreSQL"],
    "keywordsMissing": ["Kubernetes"],
    "skillGapAnalysis": [{"skill": "Technical Skills", "score": 81.6}]
  },
  "experienceQualificationMatch": {
    "experienceAlignment": "Backend roles match.",
    "educationAndCertifications": "BSc meets requirement."
  },
  "atsCompatibility": {"readabilityScore": "Good", "readabilityNotes": "Clean.", "fileType": "PDF"},
  "detailedSuggestions": {
    "summary": "Name the role.",
    "workExperience": "Quantify results.",
    "skillsSection": "Add Kubernetes.",
    "overallRecommendations": ["Add metrics"]
  }
}`

func pdfInput() Input {
	return Input{
		Resume:         []byte("%PDF-1.4 fake"),
		ResumeMIME:     extract.MIMEPDF,
		ResumeName:     "cv.pdf",
		JobDescription: "Backend engineer with Go and PostgreSQL",
		CompanyName:    "Acme",
		JobTitle:       "Backend Engineer",
	}
}

func TestATSReport(t *testing.T) {
	fc := &fakeClient{reply: "```json\n" + reportJSON + "\n```"}
	svc := NewService(fc, nil)

	report, err := svc.ATSReport(context.Background(), pdfInput())
	require.NoError(t, err)

	assert.Equal(t, float64(100), report.OverallScore, "score is clamped")
	assert.Equal(t, float64(82), report.KeywordAnalysis.SkillGapAnalysis[0].Score)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, report.KeywordAnalysis.KeywordsMatched)
	assert.Equal(t, "PDF", report.ATSCompatibility.FileType)

	require.Len(t, fc.got, 1)
	req := fc.got[0]
	assert.True(t, req.JSON)
	assert.NotNil(t, req.Schema)
	assert.Equal(t, llm.TierStandard, req.Tier)
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, extract.MIMEPDF, req.Attachments[0].MIMEType)
	assert.Contains(t, req.Prompt, "companyName: Acme")
	assert.Contains(t, req.Prompt, "jobTitle: Backend Engineer")
	assert.Contains(t, req.Prompt, "attached (cv.pdf)")
	assert.NotContains(t, req.Prompt, "{{.")
}

func TestATSReport_InlinesTextResume(t *testing.T) {
	fc := &fakeClient{reply: reportJSON}
	svc := NewService(fc, nil)

	in := pdfInput()
	in.Resume = []byte("Jane Doe\nGo developer")
	in.ResumeMIME = "text/plain"
	in.ResumeName = "cv.txt"
	in.CompanyName = ""

	_, err := svc.ATSReport(context.Background(), in)
	require.NoError(t, err)

	req := fc.got[0]
	assert.Empty(t, req.Attachments)
	assert.Contains(t, req.Prompt, "<resume>\nJane Doe\nGo developer\n</resume>")
	assert.Contains(t, req.Prompt, "companyName: Not specified")
}

func TestATSReport_InvalidOutput(t *testing.T) {
	fc := &fakeClient{reply: `{"overallScore": 50}`}
	_, err := NewService(fc, nil).ATSReport(context.Background(), pdfInput())

	var ve *schemas.ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestATSReport_EmptyOutput(t *testing.T) {
	fc := &fakeClient{reply: "  "}
	_, err := NewService(fc, nil).ATSReport(context.Background(), pdfInput())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestATSReport_ModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	fc := &fakeClient{err: boom}
	_, err := NewService(fc, nil).ATSReport(context.Background(), pdfInput())
	assert.ErrorIs(t, err, boom)
}

func TestInputValidation(t *testing.T) {
	svc := NewService(&fakeClient{}, nil)

	tests := []struct {
		name   string
		mutate func(*Input)
		want   string
	}{
		{"missing resume", func(in *Input) { in.Resume = nil }, "Resume is required"},
		{"empty resume", func(in *Input) { in.Resume = []byte{} }, "Resume is required"},
		{"blank job", func(in *Input) { in.JobDescription = "   " }, "JobDescription is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := pdfInput()
			tt.mutate(&in)
			_, err := svc.CoverLetter(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnsupportedResume(t *testing.T) {
	in := pdfInput()
	in.ResumeMIME = "image/png"
	in.ResumeName = "cv.png"

	_, err := NewService(&fakeClient{}, nil).CoverLetter(context.Background(), in)
	var ute *extract.UnsupportedTypeError
	assert.True(t, errors.As(err, &ute))
}

func TestCoverLetter(t *testing.T) {
	fc := &fakeClient{reply: "\n\nDear Hiring Manager,\n\nI am excited...\n"}
	letter, err := NewService(fc, nil).CoverLetter(context.Background(), pdfInput())
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\n\nI am excited...", letter)

	req := fc.got[0]
	assert.False(t, req.JSON)
	assert.Nil(t, req.Schema)
	assert.Contains(t, req.Prompt, "Company name: Acme")
}

func TestCoverLetter_Empty(t *testing.T) {
	_, err := NewService(&fakeClient{reply: "\n"}, nil).CoverLetter(context.Background(), pdfInput())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float64(0), clampScore(-5))
	assert.Equal(t, float64(100), clampScore(250))
	assert.Equal(t, float64(43), clampScore(42.6))
}
