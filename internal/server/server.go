// Package server wires the application together: store, services,
// handlers, middleware, and routes. It is the composition root: every
// dependency is constructed or received here and injected downward.
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
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/miguelgnzalez28/ultimate-kits/internal/auth"
	"github.com/miguelgnzalez28/ultimate-kits/internal/catalog"
	"github.com/miguelgnzalez28/ultimate-kits/internal/config"
	"github.com/miguelgnzalez28/ultimate-kits/internal/drive"
	"github.com/miguelgnzalez28/ultimate-kits/internal/handler"
	"github.com/miguelgnzalez28/ultimate-kits/internal/middleware"
	mongostore "github.com/miguelgnzalez28/ultimate-kits/internal/repository/mongo"
	"github.com/miguelgnzalez28/ultimate-kits/internal/service"
)

// Server owns the router and the store connection. The store may be nil:
// the server then runs in image-proxy-only mode, with auth and admin
// routes failing fast with 503 and visit tracking disabled.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  *mongostore.DB
}

// New builds the server. The store is passed in (not opened here) so main
// decides how to react when the database is unreachable at boot.
func New(cfg config.Config, logger *slog.Logger, store *mongostore.DB) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	s.setupRoutes(tokens)
	return s, nil
}

// Handler exposes the router, mainly for httptest in route-level tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Permissive CORS on every route, error responses included, so browser
	// clients can always read failures.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Visit tracking applies to page routes only (the middleware skips
	// /api and non-GET itself). Without a store it is a pass-through.
	// The nil check happens before the assignment so the tracker sees a
	// nil interface, not a typed nil pointer.
	tracker := middleware.NewVisitTracker(nil, tokens, s.logger)
	if s.store != nil {
		tracker = middleware.NewVisitTracker(s.store, tokens, s.logger)
	}
	s.router.Use(tracker.Middleware())

	products := catalog.NewClient(s.config.CatalogURL, s.logger)
	images := drive.NewFetcher(s.logger)
	productHandler := handler.NewProductHandler(products, images, s.config.PublicBaseURL, s.logger)

	authLimiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Ultimate Kits API"}`))
		})

		r.Get("/products", productHandler.HandleProducts)
		r.Get("/products/image/{fileID}", productHandler.HandleImage)

		if s.store == nil {
			// Degraded mode: everything that needs the store fails fast.
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", handler.Unavailable)
				r.Post("/login", handler.Unavailable)
				r.Get("/me", handler.Unavailable)
			})
			r.Get("/admin/stats", handler.Unavailable)
			return
		}

		passwords := auth.NewPasswordService()
		authService := service.NewAuthService(s.store, s.store, tokens, passwords, s.logger)
		statsService := service.NewStatsService(s.store, s.store, s.logger)

		authHandler := handler.NewAuthHandler(authService, s.logger)
		adminHandler := handler.NewAdminHandler(statsService, s.logger)

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter.Middleware()).Post("/register", authHandler.HandleRegister)
			r.With(authLimiter.Middleware()).Post("/login", authHandler.HandleLogin)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireAdmin())
			r.Get("/stats", adminHandler.HandleStats)
		})
	})
}

// Start runs the HTTP server and blocks until shutdown. On SIGINT/SIGTERM
// in-flight requests get 30 seconds to drain, then the store (when
// present) is disconnected.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // outbound image fetches can take a while
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.Bool("storeAvailable", s.store != nil),
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

		if s.store != nil {
			if err := s.store.Close(ctx); err != nil {
				s.logger.Error("store disconnect failed", slog.String("error", err.Error()))
			}
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
