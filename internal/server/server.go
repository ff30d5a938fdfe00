// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer: it connects repositories, services,
// handlers and middleware, and decides which URL maps to which handler.
//
// WHY SEPARATE FROM main.go?
// Tests build a complete server (in-memory database, temp upload dir) and
// drive it through Handler() without opening a port. main.go only reads
// config, picks the object store and calls Start.
//
// DEPENDENCY INJECTION FLOW:
//
//	config ──► sqlite.DB ──► SubmissionService ──► SubmissionHandler
//	                    ├──► AuthService       ──► AuthHandler
//	                    ├──► ProfileService    ──► ProfileHandler
//	ObjectStore ────────┴──► UploadService     ──► UploadHandler
//
// This is the "composition root" pattern: every dependency is wired in one
// place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/review-hub/internal/auth"
	"github.com/sakif/review-hub/internal/config"
	"github.com/sakif/review-hub/internal/handler"
	"github.com/sakif/review-hub/internal/middleware"
	sqliteRepo "github.com/sakif/review-hub/internal/repository/sqlite"
	"github.com/sakif/review-hub/internal/service"
	"github.com/sakif/review-hub/internal/storage"
)

// newPasswordService is swapped for a cheap bcrypt cost in tests.
var newPasswordService = auth.NewPasswordService

// localDir is implemented by object stores that keep files on this machine.
// The server serves those files itself under /files/.
type localDir interface {
	Dir() string
}

// Server owns the router and the database connection. The database is
// closed when Start returns, or by Close.
type Server struct {
	router  *chi.Mux
	handler http.Handler
	config  *config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	files   storage.ObjectStore
}

// New opens the database, wires every layer and returns a ready server.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` so it is not confused with
// the modernc.org/sqlite driver.
func New(cfg *config.Config, logger *slog.Logger, files storage.ObjectStore) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		files:  files,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health                       → liveness + database ping
//	GET    /files/*                      → uploaded files (disk store only)
//	POST   /v1/users                     → register
//	POST   /v1/auth                      → log in
//	GET    /v1/auth/github/login         → GitHub sign-in (when configured)
//	GET    /v1/auth/github/callback
//	--- everything below requires a token ---
//	GET    /v1/auth                      → current user
//	*      /v1/submissions/...           → see SubmissionHandler.Routes
//	*      /v1/profile/...               → see ProfileHandler.Routes
//	POST   /v1/uploads                   → upload a PDF
//	DELETE /v1/uploads/{fileName}
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns an id to each request (for log correlation)
// 2. RealIP: extracts the client IP from proxy headers
// 3. Logger: one line per request, with the request id
// 4. Recoverer: turns panics into 500 instead of crashing
// CORS wraps the whole router so pre-flight OPTIONS never reach auth.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}

	// === Services ===
	// s.db implements every repository interface; each service only sees
	// the interfaces it asked for.
	uploadService := service.NewUploadService(s.files, s.db, s.config.MaxUploadBytes, s.logger)
	submissionService := service.NewSubmissionService(s.db, s.db, uploadService, s.logger)
	authService := service.NewAuthService(s.db, tokens, newPasswordService(), s.logger)
	profileService := service.NewProfileService(s.db, s.logger)

	// === Handlers ===
	submissionHandler := handler.NewSubmissionHandler(submissionService, s.logger)
	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	uploadHandler := handler.NewUploadHandler(uploadService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)

	s.router.Get("/health", s.handleHealth)

	if local, ok := s.files.(localDir); ok {
		fileServer := http.FileServer(http.Dir(local.Dir()))
		s.router.Handle("/files/*", http.StripPrefix("/files/", fileServer))
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/users", authHandler.HandleRegister)
		r.Post("/auth", authHandler.HandleLogin)
		if authHandler.GitHubEnabled() {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth", authHandler.HandleMe)
			r.Route("/submissions", submissionHandler.Routes)
			r.Route("/profile", profileHandler.Routes)
			r.Post("/uploads", uploadHandler.HandleUpload)
			r.Delete("/uploads/{fileName}", uploadHandler.HandleDelete)
		})
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", auth.TokenHeader},
		AllowCredentials: true,
	})
	s.handler = corsHandler.Handler(s.router)

	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases the database. Start calls it on the way out.
func (s *Server) Close() error {
	return s.db.Close()
}

// handleHealth answers 200 while the database responds.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start runs the HTTP server until SIGINT or SIGTERM.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to 30s for in-flight requests
// 3. Close the database (flushes the WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second, // uploads need longer than plain JSON
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("environment", s.config.Environment),
			slog.String("database", s.config.DBPath),
			slog.String("storage", s.config.StorageDriver),
			slog.Bool("github", s.config.GitHubEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
