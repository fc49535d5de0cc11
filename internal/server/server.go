// Package server exposes the REST API for the dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jkwon/wondash/internal/app"
	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
)

// Server wraps the HTTP server and the application services it exposes.
type Server struct {
	config           *common.Config
	logger           *common.Logger
	storage          interfaces.StorageManager
	market           interfaces.MarketService
	portfolios       interfaces.PortfolioService
	presets          interfaces.PresetService
	users            interfaces.UserService
	geminiConfigured bool

	server       *http.Server
	shutdownChan chan struct{}
}

// SetShutdownChannel sets the channel signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		config:           a.Config,
		logger:           a.Logger,
		storage:          a.Storage,
		market:           a.MarketService,
		portfolios:       a.PortfolioService,
		presets:          a.PresetService,
		users:            a.UserService,
		geminiConfigured: a.GeminiClient != nil,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
