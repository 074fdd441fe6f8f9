// Package server exposes the engine over HTTP: pack status, hunt
// queueing and inspection, and the howl bridge, guarded by an API key.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/hunt"
	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/store"
	"github.com/DerithAI/WOLF-AI/types"
)

// Config holds the server's listen address and auth key.
type Config struct {
	Host   string
	Port   int
	APIKey string
	Debug  bool
}

// Server is the pack command center. Hunts queued here are picked up
// by whatever daemon watches the same store; /api/hunts/run executes
// inline through the shared runner.
type Server struct {
	cfg    Config
	store  store.HuntStore
	bridge *howl.Bridge
	pack   *pack.Pack
	runner *hunt.Daemon

	engine     *gin.Engine
	httpServer *http.Server
}

// New wires the server. All collaborators are required; an empty API
// key is rejected rather than leaving the API open.
func New(cfg Config, st store.HuntStore, bridge *howl.Bridge, wolves *pack.Pack, runner *hunt.Daemon) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, types.NewValidationError("api.key", "must not be empty")
	}
	if st == nil || bridge == nil || wolves == nil || runner == nil {
		return nil, types.NewValidationError("server", "store, bridge, pack and runner are all required")
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-API-Key"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		cfg:    cfg,
		store:  st,
		bridge: bridge,
		pack:   wolves,
		runner: runner,
		engine: engine,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start serves until Stop is called. It blocks.
func (s *Server) Start() error {
	log.Printf("starting command center on %s", s.httpServer.Addr)
	_, _ = s.bridge.Send(howl.Howl{
		From:      "system",
		To:        "pack",
		Message:   "API Server started. Pack Command Center online.",
		Frequency: howl.FreqHigh,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, waiting up to ten seconds.
func (s *Server) Stop() error {
	_, _ = s.bridge.Send(howl.Howl{
		From:      "system",
		To:        "pack",
		Message:   "API Server shutting down.",
		Frequency: howl.FreqMedium,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
