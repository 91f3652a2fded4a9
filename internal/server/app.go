package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// Options holds the dependencies of a [Server].
type Options struct {
	Config   shared.ServerConfig
	Songs    services.SongCollection
	Accounts Accounts
	Logger   *log.Logger
	Registry *prometheus.Registry // defaults to a fresh registry
}

// Server is the songbook HTTP API.
type Server struct {
	config  shared.ServerConfig
	router  *BasicRouter
	handler http.Handler
	metrics *Metrics
	logger  *log.Logger
}

// New wires routes and middleware.
//
// /health and /metrics are registered before the request middleware, so they are never rate limited.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	metrics := NewMetrics(registry)
	router := NewBasicRouter()

	router.Handler(HealthHandler{})
	router.Handle(http.MethodGet, "/metrics", metrics.Handler())

	router.Use(
		Logging(logger),
		metrics.Middleware(),
		RateLimit(opts.Config.RateLimit, opts.Config.RateBurst),
	)
	router.Handler(NewSongsHandler(opts.Songs, metrics, logger))
	if opts.Accounts != nil {
		router.Handler(NewUsersHandler(opts.Accounts))
	}

	return &Server{
		config:  opts.Config,
		router:  router,
		handler: Chain(router, Recover(logger), CORS(opts.Config.CORSOrigin)),
		metrics: metrics,
		logger:  logger,
	}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
