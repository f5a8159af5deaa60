package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/observability"
	"github.com/jonathan/gitfolio/internal/types"
)

type analyzeKind int

const (
	kindReport analyzeKind = iota
	kindCoverLetter
)

func newAnalyzeCmd(a *app, kind analyzeKind) *cobra.Command {
	var (
		resumePath string
		job        jobFlags
		company    string
		title      string
		model      string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate an AI ATS report for a resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireGemini(); err != nil {
				return err
			}
			if err := job.validate(); err != nil {
				return err
			}
			data, _, err := readResume(resumePath)
			if err != nil {
				return err
			}
			jobText, err := job.text(cmd.Context(), a)
			if err != nil {
				return err
			}

			llmCfg := llm.DefaultConfig()
			if model != "" {
				llmCfg = llmCfg.WithModel(llm.TierStandard, model)
			}
			client, err := llm.NewGeminiClient(cmd.Context(), llmCfg, a.cfg.GeminiAPIKey)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()
			svc := analysis.NewService(client, a.logger)

			in := analysis.Input{
				Resume:         data,
				ResumeName:     filepath.Base(resumePath),
				JobDescription: jobText,
				CompanyName:    company,
				JobTitle:       title,
			}
			out := cmd.OutOrStdout()
			p := observability.NewPrinter(out)

			if kind == kindCoverLetter {
				letter, err := svc.CoverLetter(cmd.Context(), in)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, types.CoverLetterResponse{CoverLetter: letter})
				}
				p.PrintText("COVER LETTER", letter)
				return nil
			}

			report, err := svc.ATSReport(cmd.Context(), in)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, report)
			}
			p.PrintReport(report)
			return nil
		},
	}
	if kind == kindCoverLetter {
		cmd.Use = "cover-letter"
		cmd.Short = "Generate an AI cover letter for a resume and job"
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "Path to the resume file (required)")
	job.register(cmd)
	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringVar(&model, "model", "", "Override the Gemini model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
