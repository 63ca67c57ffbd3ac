// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/avdeevdmitrykrsk/blogicum/internal/config"
	"github.com/avdeevdmitrykrsk/blogicum/internal/geoip"
	"github.com/avdeevdmitrykrsk/blogicum/internal/handler"
	"github.com/avdeevdmitrykrsk/blogicum/internal/imaging"
	"github.com/avdeevdmitrykrsk/blogicum/internal/logging"
	"github.com/avdeevdmitrykrsk/blogicum/internal/middleware"
	"github.com/avdeevdmitrykrsk/blogicum/internal/render"
	"github.com/avdeevdmitrykrsk/blogicum/internal/session"
	"github.com/avdeevdmitrykrsk/blogicum/internal/store"
	"github.com/avdeevdmitrykrsk/blogicum/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Blogicum - a multi-user blog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_DB_PATH          SQLite database path (default: ./data/blogicum.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_UPLOADS_DIR      Uploaded images directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_GEOIP_DB_PATH    GeoLite2-City.mmdb path for location suggestions (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGICUM_DO_SEED          Seed default categories and locations (default: false)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("blogicum %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data and uploads directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("database seeded")
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize template renderer
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Initialize image processor for post uploads
	processor := imaging.NewProcessor(cfg.UploadsDir)

	// Initialize GeoIP lookup for location suggestions
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip disabled", "error", err, "path", cfg.GeoIPDBPath)
		} else {
			slog.Info("geoip initialized", "path", cfg.GeoIPDBPath)
			defer func() {
				_ = geo.Close()
			}()
		}
	}

	// CSRF protection
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized")

	// Login protection: IP rate limiting plus account lockout
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized")

	// Initialize handlers
	blogHandler := handler.NewBlogHandler(db, renderer, sessionManager, cfg.PostsPerPage)
	postsHandler := handler.NewPostsHandler(db, renderer, sessionManager, processor, geo)
	commentsHandler := handler.NewCommentsHandler(db, renderer, sessionManager)
	profileHandler := handler.NewProfileHandler(db, renderer, sessionManager, cfg.PostsPerPage)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection)

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(sessionManager.LoadAndSave)
	r.Use(csrfMiddleware)
	r.Use(middleware.LoadUser(sessionManager, db))

	// Public blog routes
	r.Get("/", blogHandler.Index)
	r.Get("/posts/{postID}", blogHandler.PostDetail)
	r.Get("/category/{slug}", blogHandler.Category)
	r.Get("/profile/{username}", profileHandler.Show)

	// Auth routes
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", loginProtection.RateLimitLogin(authHandler.Login))
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))

		r.Get("/posts/create", postsHandler.NewForm)
		r.Post("/posts/create", postsHandler.Create)
		r.Get("/posts/{postID}/edit", postsHandler.EditForm)
		r.Post("/posts/{postID}/edit", postsHandler.Update)
		r.Post("/posts/{postID}/delete", postsHandler.Delete)

		r.Get("/posts/{postID}/comment", commentsHandler.NewForm)
		r.Post("/posts/{postID}/comment", commentsHandler.Create)
		r.Get("/posts/{postID}/comment/{commentID}/edit", commentsHandler.EditForm)
		r.Post("/posts/{postID}/comment/{commentID}/edit", commentsHandler.Update)
		r.Post("/posts/{postID}/comment/{commentID}/delete", commentsHandler.Delete)

		r.Get("/profile/edit", profileHandler.EditForm)
		r.Post("/profile/edit", profileHandler.Update)

		r.Post("/logout", authHandler.Logout)
	})

	// Static assets from the embedded filesystem
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	// Uploaded post images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	r.NotFound(blogHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
