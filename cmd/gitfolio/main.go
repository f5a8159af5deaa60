// Package main provides the gitfolio command line interface and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/fetch"
	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/logging"
)

// app carries state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "gitfolio",
		Short: "Resume ATS scoring and GitHub portfolio service",
		Long: "gitfolio scores resumes against job descriptions, imports GitHub profiles " +
			"and generates AI resume reviews and cover letters, from the command line or over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a JSON or YAML config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().Bool("use-browser", false, "Render job pages in headless Chrome when plain fetching finds too little text")
	_ = a.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("use_browser", root.PersistentFlags().Lookup("use-browser"))

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newScoreCmd(a),
		newGitHubCmd(a),
		newAnalyzeCmd(a, kindReport),
		newAnalyzeCmd(a, kindCoverLetter),
		newTokenCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) githubClient() *github.Client {
	opts := []github.Option{github.WithBaseURL(a.cfg.GitHubAPIURL)}
	if a.cfg.GitHubToken != "" {
		opts = append(opts, github.WithToken(a.cfg.GitHubToken))
	}
	return github.NewClient(opts...)
}

func (a *app) jobFetcher() *fetch.Fetcher {
	opts := []fetch.Option{fetch.WithLogger(a.logger)}
	if a.cfg.UseBrowser {
		opts = append(opts, fetch.WithRenderer(fetch.NewChromeRenderer()))
	}
	return fetch.New(opts...)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
