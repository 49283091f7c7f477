package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/config"
	"github.com/Simplici0/lucrocerto/internal/db"
	"github.com/Simplici0/lucrocerto/internal/migrations"
	"github.com/Simplici0/lucrocerto/internal/seed"
)

const shutdownTimeout = 5 * time.Second

type server struct {
	auth         *authService
	db           *sql.DB
	store        *catalog.Store
	catalog      atomic.Pointer[catalog.Catalog]
	catalogOpts  []catalog.Option
	templatesDir string
	staticDir    string
	logger       *zap.Logger
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
	LoggedIn       bool
}

type loginViewData struct {
	baseViewData
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings() {
		logger.Warn("configuration incomplete", zap.String("detail", warning))
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.MigrationsDir); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	stats, err := seed.Run(database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts))

	srv := newServer(database, cfg, logger)
	if err := srv.reloadCatalog(context.Background()); err != nil {
		logger.Fatal("failed to load reference tables", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newServer(database *sql.DB, cfg config.Config, logger *zap.Logger) *server {
	s := &server{
		auth:         newAuthService(database, cfg.SessionSecret),
		db:           database,
		store:        catalog.NewStore(database),
		templatesDir: cfg.TemplatesDir,
		staticDir:    cfg.StaticDir,
		logger:       logger,
		catalogOpts: []catalog.Option{
			catalog.WithDefaultMarketplace(cfg.DefaultMarketplace),
			catalog.WithDefaultReferralRate(cfg.DefaultReferralRate),
		},
	}
	s.catalog.Store(catalog.Default(s.catalogOpts...))
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleCalculatorForm)
	r.Post("/", s.handleCalculatorSubmit)
	r.Post("/api/pricing", s.handleAPIPricing)
	r.Get("/api/catalog", s.handleAPICatalog)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/categories", s.handleAdminCategoriesForm)
		r.Post("/categories", s.handleAdminCategoriesSave)
		r.Get("/marketplaces", s.handleAdminMarketplacesForm)
		r.Post("/marketplaces", s.handleAdminMarketplacesSave)
		r.Get("/fees", s.handleAdminFeesForm)
		r.Post("/fees", s.handleAdminFeesSave)
	})

	return r
}

// currentCatalog returns the reference table snapshot requests price against.
func (s *server) currentCatalog() *catalog.Catalog {
	return s.catalog.Load()
}

func (s *server) reloadCatalog(ctx context.Context) error {
	c, err := s.store.Load(ctx, s.catalogOpts...)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	s.catalog.Store(c)
	return nil
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := migrations.Version(s.db)
	if err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "schemaVersion": version})
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		s.logger.Error("validate credentials", zap.Error(err))
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Credenciais inválidas. Tente novamente."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.ParseFiles(
		filepath.Join(s.templatesDir, "layout.html"),
		filepath.Join(s.templatesDir, page),
	)
	if err != nil {
		s.logger.Error("parse template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("render template", zap.String("page", page), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
