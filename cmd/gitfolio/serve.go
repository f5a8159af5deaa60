package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/server"
	"github.com/jonathan/gitfolio/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: "Start an HTTP server exposing ATS scoring, GitHub import, AI analysis and resume storage. " +
			"Storage routes need DATABASE_URL and AI routes need GEMINI_API_KEY; without them those routes answer 503.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, migrate)
		},
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	_ = a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func (a *app) runServe(ctx context.Context, migrate bool) error {
	jwtCfg, err := a.cfg.JWT()
	if err != nil {
		return err
	}

	deps := server.Deps{
		GitHub:  a.githubClient(),
		Jobs:    a.jobFetcher(),
		JWT:     server.NewJWTService(jwtCfg),
		Limiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:  a.logger,
	}

	if a.cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		database, err := db.Connect(connectCtx, a.cfg.DatabaseURL)
		cancel()
		if err != nil {
			return err
		}
		defer database.Close()

		if migrate {
			applied, err := database.Migrate(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("migrations applied", zap.Strings("versions", applied))
		}
		deps.Store = database
	} else {
		a.logger.Warn("DATABASE_URL not set, storage routes are disabled")
	}

	if a.cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), a.cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		deps.Analyzer = analysis.NewService(client, a.logger)
	} else {
		a.logger.Warn("GEMINI_API_KEY not set, AI analysis routes are disabled")
	}

	srv := server.New(server.Config{
		Addr:           a.cfg.Addr(),
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		CORSOrigins:    a.cfg.CORSOrigins,
	}, deps)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
