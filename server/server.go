// Package server provides HTTP server management and lifecycle
// handling for the prescriptions API. It includes server setup,
// middleware configuration, route management and graceful shutdown
// with proper error handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sehatnxt/prescriptions-api/config"
	"github.com/sehatnxt/prescriptions-api/handlers"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.Handler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, handler *handlers.Handler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.RequestLogger(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Reference data
	s.router.Get("/catalog", s.handler.ServeCatalog)
	s.router.Get("/catalog/suggest/{prefix}", s.handler.SuggestMedicines)
	s.router.Get("/templates", s.handler.ServeTemplates)
	s.router.Get("/templates/{templateId}", s.handler.FindTemplateByID)
	s.router.Get("/patients", s.handler.ServePatients)
	s.router.Get("/patients/{patientId}", s.handler.FindPatientByID)

	// Draft composition
	s.router.Route("/prescriptions", func(r chi.Router) {
		r.Post("/", s.handler.CreateDraft)

		r.Route("/{draftId}", func(r chi.Router) {
			r.Get("/", s.handler.GetDraft)
			r.Patch("/", s.handler.UpdateDraft)
			r.Delete("/", s.handler.DeleteDraft)

			r.Post("/medicines", s.handler.AddMedicineRow)
			r.Patch("/medicines/{rowId}", s.handler.UpdateMedicineRow)
			r.Delete("/medicines/{rowId}", s.handler.RemoveMedicineRow)
			r.Post("/medicines/{rowId}/select", s.handler.SelectSuggestion)

			r.Post("/template/{templateId}", s.handler.ApplyTemplate)

			r.Post("/save", s.handler.SaveDraft)
			r.Post("/share", s.handler.ShareDraft)
			r.Get("/preview", s.handler.PreviewDraft)
			r.Post("/print", s.handler.PrintDraft)
		})
	})

	// Operational endpoints
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Method("GET", "/metrics", promhttp.Handler())
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	// Wait a bit for any ongoing requests to complete
	logging.Info("Waiting for ongoing requests to complete...")
	time.Sleep(2 * time.Second)

	logging.Info("Server shutdown complete")
	return nil
}

// Router exposes the configured router, used by tests to drive the
// full middleware and routing stack without a listening socket.
func (s *Server) Router() chi.Router {
	return s.router
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
