package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/npezzotti/scholarly/internal/config"
	"github.com/npezzotti/scholarly/internal/events"
	"github.com/npezzotti/scholarly/internal/registry"
	"github.com/npezzotti/scholarly/internal/stats"
	"github.com/npezzotti/scholarly/internal/store"
)

type ScholarlyApp struct {
	log            *log.Logger
	registry       *registry.Registry
	store          store.HubStore
	notifier       *events.Notifier
	stats          stats.Provider
	validate       *validator.Validate
	mux            *http.Server
	signingKey     []byte
	allowedOrigins []string
}

func NewScholarlyApp(mux *http.ServeMux, logger *log.Logger, reg *registry.Registry,
	hubStore store.HubStore, notifier *events.Notifier, sp stats.Provider, cfg *config.Config) *ScholarlyApp {
	s := &ScholarlyApp{
		log:            logger,
		registry:       reg,
		store:          hubStore,
		notifier:       notifier,
		stats:          sp,
		validate:       validator.New(),
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("GET /api/hubs", s.listHubs)
	mux.HandleFunc("POST /api/hubs", s.createHub)
	mux.HandleFunc("DELETE /api/hubs", s.deleteHub)
	mux.HandleFunc("POST /api/hubs/enter", s.enterHub)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.HandleFunc("GET /api/auth/leave", s.authMiddleware(s.leave))
	mux.HandleFunc("GET /api/classes", s.authMiddleware(s.listClasses))
	mux.HandleFunc("POST /api/classes", s.authMiddleware(s.adminOnly(s.createClass)))
	mux.HandleFunc("POST /api/resources", s.authMiddleware(s.adminOnly(s.publishResource)))
	mux.HandleFunc("DELETE /api/resources", s.authMiddleware(s.adminOnly(s.deleteResource)))
	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = handlers.LoggingHandler(logger.Writer(), h)
	h = s.requestIdHandler(h)
	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *ScholarlyApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *ScholarlyApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
