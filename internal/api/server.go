// Package api serves archive searches over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/pfrederiksen/swim-archive/internal/archive"
	"github.com/pfrederiksen/swim-archive/internal/config"
	"github.com/pfrederiksen/swim-archive/internal/fetcher"
	"github.com/pfrederiksen/swim-archive/internal/logger"
)

// NewRouter creates and configures the chi router with all middleware and routes.
func NewRouter(svc Service, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestMetrics)

	c := corslib.New(corslib.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	if cfg.RateLimitRequests > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := NewHandler(svc)

	// --- Routes ---
	r.Handle("/metrics", logger.DefaultMetrics().Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/search", h.Search)
		r.Get("/personal-bests", h.PersonalBests)
		r.Post("/scrape-page", h.ScrapePage)
	})

	return r
}

// ListenAndServe runs handler on addr until ctx is cancelled, then shuts the
// server down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// A search may visit several archive pages in sequence.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting swim archive API", logger.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped", nil)
	return nil
}

// Run builds the archive service described by cfg and serves it until ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	f := fetcher.New(cfg.SearchFetcherOptions())
	svc := archive.New(f, cfg.BaseURL, cfg.MaxPages)

	logger.Info("Archive configured", logger.Fields{
		"base_url":  cfg.BaseURL,
		"max_pages": cfg.MaxPages,
		"origins":   cfg.AllowedOrigins(),
	})
	return ListenAndServe(ctx, cfg.Addr, NewRouter(svc, cfg))
}
