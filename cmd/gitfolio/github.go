package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/observability"
)

func newGitHubCmd(a *app) *cobra.Command {
	var (
		profileURL string
		summarize  bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "github",
		Short: "Import a GitHub profile and optionally summarize its repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, err := github.ParseProfileURL(profileURL)
			if err != nil {
				return err
			}
			client := a.githubClient()

			result, err := client.FetchProfile(cmd.Context(), username)
			if err != nil {
				return err
			}

			var summaries map[string][]string
			if summarize && len(result.Repos) > 0 {
				names := make([]string, len(result.Repos))
				for i, r := range result.Repos {
					names[i] = r.FullName
				}
				summaries, err = client.SummarizeRepos(cmd.Context(), names)
				if err != nil {
					return err
				}
			}

			if asJSON {
				out := map[string]any{"profile": result.Profile, "repos": result.Repos}
				if summaries != nil {
					out["summaries"] = summaries
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			p := observability.NewPrinter(cmd.OutOrStdout())
			p.PrintProfile(result)
			p.PrintSummaries(summaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&profileURL, "profile", "", "GitHub profile URL, e.g. https://github.com/octocat (required)")
	cmd.Flags().BoolVar(&summarize, "summarize", false, "Summarize each listed repository")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}
