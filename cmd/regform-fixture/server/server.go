// Package server provides an importable HTTP server that stands in for the
// storefront's registration page.
// This allows E2E tests to programmatically start/stop the page without running main().
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
}

// DefaultConfig returns a configuration suitable for testing.
// Binds to a random available port on the loopback interface.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves the registration fixture.
type Server struct {
	httpServer *http.Server
	handler    *RegistrationHandler
	listener   net.Listener
	addr       string
	log        *zap.Logger
	mu         sync.Mutex
	running    bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and server errors.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	s := &Server{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = NewRegistrationHandler(s.log)

	mux := http.NewServeMux()
	mux.Handle("/index.php", s.handler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/index.php?route="+RouteRegister, http.StatusFound)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("fixture server stopped", zap.Error(err))
		}
	}()

	return s.addr, nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// RegisterURL is the registration page's URL once the server is started.
func (s *Server) RegisterURL() string {
	return "http://" + s.Addr() + "/index.php?route=" + RouteRegister
}

// Registered reports whether an account was created for email.
func (s *Server) Registered(email string) bool {
	return s.handler.Registered(email)
}
