// Package analysis produces AI resume reviews: an ATS-style report and a
// tailored cover letter.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/logging"
	"github.com/jonathan/gitfolio/internal/prompts"
	"github.com/jonathan/gitfolio/internal/schemas"
)

var (
	// ErrInvalidInput wraps input validation failures.
	ErrInvalidInput = errors.New("invalid analysis input")
	// ErrEmptyResponse is returned when the model replies with nothing usable.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Kind names an analysis type.
type Kind string

const (
	KindATS         Kind = "ats"
	KindCoverLetter Kind = "cover_letter"
)

// Input is a resume paired with the job it is being reviewed for.
type Input struct {
	Resume         []byte `validate:"required,min=1"`
	ResumeMIME     string
	ResumeName     string
	JobDescription string `validate:"required"`
	CompanyName    string `validate:"max=200"`
	JobTitle       string `validate:"max=200"`
}

// Service runs analyses against a model client.
type Service struct {
	client   llm.Client
	logger   *zap.Logger
	validate *validator.Validate
	tier     llm.ModelTier
}

// NewService creates a Service. A nil logger discards output.
func NewService(client llm.Client, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		logger:   logging.OrNop(logger),
		validate: validator.New(),
		tier:     llm.TierStandard,
	}
}

// ATSReport asks the model for a structured ATS review of the resume.
func (s *Service) ATSReport(ctx context.Context, in Input) (*ATSReport, error) {
	req, err := s.request(in, "ats_report")
	if err != nil {
		return nil, err
	}
	req.JSON = true
	req.Schema = reportSchema

	out, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ATS report: %w", err)
	}
	out = llm.ExtractJSONObject(out)
	if strings.TrimSpace(out) == "" {
		return nil, ErrEmptyResponse
	}

	if err := schemas.Validate(schemas.ATSReport, out); err != nil {
		s.logger.Warn("ATS report failed schema validation", zap.Error(err))
		return nil, fmt.Errorf("model returned an invalid ATS report: %w", err)
	}

	var report ATSReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return nil, fmt.Errorf("failed to decode ATS report: %w", err)
	}
	report.normalize()

	s.logger.Debug("ATS report generated",
		zap.Float64("score", report.OverallScore),
		zap.Int("matched", len(report.KeywordAnalysis.KeywordsMatched)),
		zap.Int("missing", len(report.KeywordAnalysis.KeywordsMissing)))
	return &report, nil
}

// CoverLetter asks the model for a plain-text cover letter.
func (s *Service) CoverLetter(ctx context.Context, in Input) (string, error) {
	req, err := s.request(in, "cover_letter")
	if err != nil {
		return "", err
	}

	out, err := s.client.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}
	letter := strings.TrimSpace(out)
	if letter == "" {
		return "", ErrEmptyResponse
	}
	return letter, nil
}

// request validates in and builds the prompt. PDFs go to the model as an
// attachment; other formats are converted to text and inlined.
func (s *Service) request(in Input, promptKey string) (llm.Request, error) {
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if err := s.validate.Struct(in); err != nil {
		return llm.Request{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	format, err := extract.DetectFormat(in.Resume, in.ResumeMIME, in.ResumeName)
	if err != nil {
		return llm.Request{}, err
	}

	name := in.ResumeName
	if name == "" {
		name = "resume." + string(format)
	}
	data := map[string]string{
		"CompanyName":    orUnknown(in.CompanyName),
		"JobTitle":       orUnknown(in.JobTitle),
		"JobDescription": in.JobDescription,
		"ResumeName":     name,
	}

	req := llm.Request{Tier: s.tier}
	if format == extract.FormatPDF {
		data["ResumeSection"] = prompts.Format(prompts.MustGet(prompts.Analysis, "resume_attached"), data)
		req.Attachments = []llm.Attachment{{MIMEType: extract.MIMEPDF, Data: in.Resume}}
	} else {
		doc, err := extract.Text(in.Resume, in.ResumeMIME, in.ResumeName)
		if err != nil {
			return llm.Request{}, err
		}
		data["ResumeText"] = doc.Text
		data["ResumeSection"] = prompts.Format(prompts.MustGet(prompts.Analysis, "resume_inline"), data)
	}

	tpl, err := prompts.Get(prompts.Analysis, promptKey)
	if err != nil {
		return llm.Request{}, err
	}
	req.Prompt = prompts.Format(tpl, data)
	return req, nil
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Not specified"
	}
	return s
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "min":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
