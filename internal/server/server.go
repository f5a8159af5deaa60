// Package server provides the gitfolio HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/analysis"
	"github.com/jonathan/gitfolio/internal/db"
	"github.com/jonathan/gitfolio/internal/github"
	"github.com/jonathan/gitfolio/internal/logging"
	"github.com/jonathan/gitfolio/internal/server/middleware"
	"github.com/jonathan/gitfolio/internal/server/ratelimit"
)

// Store is the persistence used by authenticated routes.
type Store interface {
	Ping(ctx context.Context) error
	UpsertUser(ctx context.Context, id uuid.UUID, in db.UserInput) (*db.User, error)
	EnsureUser(ctx context.Context, id uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	CreateResume(ctx context.Context, userID uuid.UUID, in db.ResumeInput) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error)
	UpdateResume(ctx context.Context, userID, id uuid.UUID, patch db.ResumePatch) (*db.Resume, error)
	DeleteResume(ctx context.Context, userID, id uuid.UUID) error
	PutResumeFile(ctx context.Context, userID uuid.UUID, f *db.ResumeFile) error
	GetResumeFile(ctx context.Context, userID, resumeID uuid.UUID) (*db.ResumeFile, error)
	SaveAnalysis(ctx context.Context, a *db.Analysis) error
	ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]db.Analysis, error)
}

// GitHub imports profiles and summarizes repositories.
type GitHub interface {
	FetchProfile(ctx context.Context, username string) (*github.ProfileResult, error)
	SummarizeRepos(ctx context.Context, fullNames []string) (map[string][]string, error)
}

// Analyzer produces AI reviews of a resume.
type Analyzer interface {
	ATSReport(ctx context.Context, in analysis.Input) (*analysis.ATSReport, error)
	CoverLetter(ctx context.Context, in analysis.Input) (string, error)
}

// JobFetcher downloads job descriptions by URL.
type JobFetcher interface {
	JobDescription(ctx context.Context, url string) (string, error)
}

// Config holds server configuration
type Config struct {
	Addr           string // listen address, ":8080" when empty
	MaxUploadBytes int64
	CORSOrigins    []string
}

// Deps are the services behind the handlers. Store, Analyzer and Jobs may
// be nil; their routes then answer 503.
type Deps struct {
	Store    Store
	GitHub   GitHub
	Analyzer Analyzer
	Jobs     JobFetcher
	JWT      *JWTService
	Limiter  *ratelimit.Limiter
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     chi.Router

	store    Store
	github   GitHub
	analyzer Analyzer
	jobs     JobFetcher
	jwt      *JWTService
	limiter  *ratelimit.Limiter
	logger   *zap.Logger

	maxUpload int64
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	logger := logging.OrNop(deps.Logger)
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}

	s := &Server{
		store:     deps.Store,
		github:    deps.GitHub,
		analyzer:  deps.Analyzer,
		jobs:      deps.Jobs,
		jwt:       deps.JWT,
		limiter:   limiter,
		logger:    logger,
		maxUpload: maxUpload,
	}
	s.router = s.routes(cfg.CORSOrigins)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second, // model calls can be slow
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(origins []string) chi.Router {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	r.Get("/health/db", s.handleHealthDB)

	r.With(middleware.OptionalAuth(s.tokenValidator())).Post("/ats-score", s.handleATSScore)
	r.Post("/github", s.handleGitHubProfile)
	r.Post("/summarize", s.handleSummarize)
	r.Post("/preview", s.handlePreview)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.tokenValidator()))

		r.Post("/analysis/ats", s.handleAnalysisATS)
		r.Post("/analysis/cover-letter", s.handleAnalysisCoverLetter)
		r.Get("/analyses", s.handleListAnalyses)

		r.Get("/me", s.handleGetMe)
		r.Put("/me", s.handleUpdateMe)

		r.Get("/resumes", s.handleGetResumes)
		r.Post("/resumes", s.handleCreateResume)
		r.Put("/resumes", s.handleUpdateResume)
		r.Delete("/resumes", s.handleDeleteResume)
		r.Put("/resumes/{id}/file", s.handleUploadResumeFile)
		r.Get("/resumes/{id}/file", s.handleDownloadResumeFile)
	})
	return r
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.limiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

type rejectAll struct{}

func (rejectAll) ValidateToken(string) (middleware.UserIDGetter, error) {
	return nil, errors.New("authentication is not configured")
}

func (s *Server) tokenValidator() middleware.TokenValidator {
	if s.jwt == nil {
		return rejectAll{}
	}
	return s.jwt.AsTokenValidator()
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requestLog(r).Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

func (s *Server) requestLog(r *http.Request) *zap.Logger {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

// withRateLimit applies per-client limits and sets X-RateLimit headers.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID is the caller's IP; RealIP has already applied proxy headers.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	body := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		body["resetAt"] = info.ResetTime.UTC().Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds() + 0.999)
		body["retryAfter"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	s.requestLog(r).Warn("rate limit exceeded",
		zap.String("client", clientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))
	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
