package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/edmw/wishlist-sub003/internal/platform/config"
)

const (
	defaultDrainTimeout      = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDrainTimeout bounds how long Run waits for in-flight requests once its
// context is done.
func WithDrainTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.drain = d
		}
	}
}

// Server serves the API until the context given to Run is done, then stops
// accepting connections and lets running actions finish.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	drain  time.Duration

	ready chan struct{}
	once  sync.Once
	addr  string
}

// NewServer returns a Server for handler listening on cfg.Host:cfg.Port.
// A zero port picks a free one; see Addr.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: min(defaultReadHeaderTimeout, positiveOr(cfg.ReadTimeout, defaultReadHeaderTimeout)),
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
		drain:  defaultDrainTimeout,
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run listens and serves until ctx is done or serving fails. Cancelling ctx
// is the normal way to stop and makes Run return nil after draining.
// Request contexts keep ctx's values but not its cancellation, so a
// shutdown does not abort actions that are already running.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.srv.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }

	s.once.Do(func() {
		s.addr = ln.Addr().String()
		close(s.ready)
	})
	s.logger.Info("serving", slog.String("addr", s.addr))

	served := make(chan error, 1)
	go func() { served <- s.srv.Serve(ln) }()

	select {
	case err := <-served:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("draining requests",
		slog.Any("cause", context.Cause(ctx)),
		slog.Duration("timeout", s.drain),
	)
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
	defer cancel()

	if err := s.srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("draining: %w", err)
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Ready is closed once Run is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the listening address once Ready is closed and the configured one
// before.
func (s *Server) Addr() string {
	select {
	case <-s.ready:
		return s.addr
	default:
		return s.srv.Addr
	}
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
