// package server contains middleware & handlers for the local ice cream server
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the route patterns it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const (
	defaultSessionTTL    = 15 * time.Minute
	defaultSweepInterval = time.Second
)

// Options configures a [Server].
type Options struct {
	SessionTTL    time.Duration // Idle time before a session expires
	SweepInterval time.Duration // How often expired sessions are collected
	RateLimit     float64       // Requests per second across all clients; zero disables limiting
	Burst         int           // Requests allowed at once above RateLimit; defaults to 1
	Logger        *log.Logger   // Defaults to a discarding logger
}

// Server wires the [Store], the [Broker], and the HTTP handlers together.
type Server struct {
	store    *Store
	broker   *Broker
	router   *BasicRouter
	logger   *log.Logger
	interval time.Duration
}

// New creates a [Server] with its routes registered.
func New(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Server{
		store:    NewStore(opts.SessionTTL),
		broker:   NewBroker(),
		router:   NewBasicRouter(),
		logger:   opts.Logger,
		interval: opts.SweepInterval,
	}

	s.router.Use(RequestID, RequestLogger(s.logger))
	if opts.RateLimit > 0 {
		s.router.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))))
	}
	s.router.Handler(NewIceCreamHandler(s.store, s.logger))
	s.router.Handle(http.MethodGet, "/events", s.broker)

	return s
}

// Handler returns the root [http.Handler].
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the session store.
func (s *Server) Store() *Store {
	return s.store
}

// Sweep expires idle sessions and publishes a session-timeout event for each one.
func (s *Server) Sweep() int {
	expired := s.store.Expire()
	for _, username := range expired {
		s.logger.Info("session expired", "username", username)
		s.broker.Publish(SessionTimeout, username)
	}
	return len(expired)
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	s.broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
