package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"battle-features/internal/features"
	"battle-features/internal/storage"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds a JSONL upload
const maxBodyBytes = 64 << 20

// PresetResolver returns the feature config for a preset name. An empty name
// selects the default preset.
type PresetResolver func(name string) (features.Config, error)

// Config holds the server's collaborators
type Config struct {
	Port    string
	Workers int
	Resolve PresetResolver
	// Rotator receives ingested battles. Ingest is disabled when nil.
	Rotator *storage.FileRotator
}

// Server exposes extraction over HTTP and WebSocket
type Server struct {
	cfg        Config
	router     *mux.Router
	httpServer *http.Server
}

// New creates a Server with its routes registered
func New(cfg Config) *Server {
	if cfg.Resolve == nil {
		cfg.Resolve = func(name string) (features.Config, error) {
			if name == "" {
				name = features.DefaultPreset
			}
			return features.Preset(name)
		}
	}
	s := &Server{cfg: cfg, router: mux.NewRouter()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", s.handlePresets).Methods("GET")
	api.HandleFunc("/extract", s.handleExtract).Methods("POST")
	api.HandleFunc("/battles", s.handleIngest).Methods("POST")

	s.router.HandleFunc("/ws/extract", s.handleExtractStream).Methods("GET")
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP connections and blocks until Stop
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	log.Printf("[Server] Listening on http://localhost:%s", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server and flushes the ingest rotator
func (s *Server) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	if s.cfg.Rotator != nil {
		if cerr := s.cfg.Rotator.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
