// Package api serves stored games and summaries as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/verte-zerg/dartlog/internal/config"
	"github.com/verte-zerg/dartlog/internal/model"
	"github.com/verte-zerg/dartlog/internal/stats"
	"github.com/verte-zerg/dartlog/internal/store"
)

const version = "1.0.0"

// Store is the read side of the game store.
type Store interface {
	stats.GameLister
	GetGame(ctx context.Context, id int64) (model.GameRecord, error)
	ListPlayers(ctx context.Context, gameType string) ([]store.PlayerSummary, error)
}

// Config tunes the server.
type Config struct {
	Locale  string
	Limiter struct {
		RPS     float64
		Burst   int
		Enabled bool
	}
	Timeout time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	var cfg Config
	cfg.Limiter.RPS = 4
	cfg.Limiter.Burst = 8
	cfg.Limiter.Enabled = true
	cfg.Timeout = 15 * time.Second
	return cfg
}

// Server handles API requests. Every summary request replays games into a
// fresh factory, so handlers share no accumulator state.
type Server struct {
	store  Store
	game   stats.Game
	def    *model.GameDefinition
	file   config.FileConfig
	config Config
	logw   io.Writer

	mu      sync.Mutex
	clients map[string]*client
}

// New builds a server for one game type. Request log lines go to logw.
func New(st Store, game stats.Game, file config.FileConfig, cfg Config, logw io.Writer) (*Server, error) {
	f, err := game.NewFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s factory: %w", game.Type, err)
	}
	if logw == nil {
		logw = io.Discard
	}
	return &Server{
		store:   st,
		game:    game,
		def:     f.Game(),
		file:    file,
		config:  cfg,
		logw:    logw,
		clients: map[string]*client{},
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.NotFound(s.notFoundResponse)
	router.MethodNotAllowed(s.methodNotAllowedResponse)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.logRequest)
	router.Use(s.recoverPanic)
	router.Use(s.rateLimit)
	if s.config.Timeout > 0 {
		router.Use(middleware.Timeout(s.config.Timeout))
	}

	router.Get("/v1/healthcheck", s.healthCheck)
	router.Get("/v1/players", s.listPlayers)
	router.Get("/v1/summary", s.getSummary)
	router.Route("/v1/games", func(router chi.Router) {
		router.Get("/", s.listGames)
		router.Get("/{id}", s.getGame)
	})

	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	// Cancelled on return so the shutdown goroutine also ends when listening fails.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	s.logf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.logf("stopped server on %s", addr)
	return nil
}

func (s *Server) logf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.logw, format+"\n", args...); err != nil {
		// Best-effort request logging.
		_ = err
	}
}
