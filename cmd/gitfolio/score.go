package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/ats"
	"github.com/jonathan/gitfolio/internal/extract"
	"github.com/jonathan/gitfolio/internal/observability"
)

// jobFlags selects a job description from a file or a URL.
type jobFlags struct {
	file string
	url  string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "job", "", "Path to a text file with the job description")
	cmd.Flags().StringVar(&f.url, "job-url", "", "URL of a job posting to fetch")
}

func (f *jobFlags) validate() error {
	if f.file == "" && f.url == "" {
		return errors.New("either --job or --job-url must be provided")
	}
	if f.file != "" && f.url != "" {
		return errors.New("--job and --job-url are mutually exclusive; provide only one")
	}
	return nil
}

// text reads the job description, fetching it when a URL was given.
func (f *jobFlags) text(ctx context.Context, a *app) (string, error) {
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	}
	return a.jobFetcher().JobDescription(ctx, f.url)
}

// readResume loads a resume file and extracts its text.
func readResume(path string) ([]byte, *extract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read resume: %w", err)
	}
	doc, err := extract.Text(data, "", filepath.Base(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract resume text: %w", err)
	}
	return data, doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newScoreCmd(a *app) *cobra.Command {
	var (
		resumePath  string
		job         jobFlags
		maxKeywords int
		keepStop    bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a resume against a job description",
		Long:  "Compute the TF-IDF cosine similarity between a resume (PDF, DOCX or text) and a job description, and list matched and missing keywords.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := job.validate(); err != nil {
				return err
			}
			_, doc, err := readResume(resumePath)
			if err != nil {
				return err
			}
			jobText, err := job.text(cmd.Context(), a)
			if err != nil {
				return err
			}

			result, err := ats.Score(doc.Text, jobText, ats.Options{
				RemoveStopWords: !keepStop,
				MaxKeywords:     maxKeywords,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintScore(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&resumePath, "resume", "", "Path to the resume file (required)")
	job.register(cmd)
	cmd.Flags().IntVar(&maxKeywords, "max-keywords", ats.DefaultMaxKeywords, "Number of job keywords to check")
	cmd.Flags().BoolVar(&keepStop, "keep-stop-words", false, "Score with stop words included")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
