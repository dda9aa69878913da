// Package api serves the weekly todo REST API over HTTP.
//
// Routes, relative to the configured base path (default /todos):
//
//	GET    /            list, optional ?day= and ?completed= filters
//	GET    /day/{day}   todos for one day, 404 when there are none
//	GET    /{id}        one todo
//	POST   /            create
//	PUT    /{id}        update
//	DELETE /{id}        delete
//	PUT    /{id}/toggle flip completed
//
// The server also exposes /health, /metrics and, when a dashboard hub is
// configured, the /ws WebSocket endpoint.
package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steveyegge/weekdo/internal/dashboard"
	"github.com/steveyegge/weekdo/internal/todos"
)

// Config holds server configuration.
type Config struct {
	// Addr to listen on (default ":3000")
	Addr string

	// BasePath the todo routes are mounted under (default "/todos")
	BasePath string

	// Hub, when set, is mounted at /ws.
	Hub *dashboard.Hub

	// Registry receives the server's metrics (default: a new registry)
	Registry *prometheus.Registry

	// Logger for request and lifecycle logging (default: log.Default())
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:     ":3000",
		BasePath: "/todos",
		Logger:   log.Default(),
	}
}

// Server serves the todo API.
type Server struct {
	svc      *todos.Service
	hub      *dashboard.Hub
	addr     string
	basePath string
	registry *prometheus.Registry
	metrics  *metrics
	logger   *log.Logger
	handler  http.Handler

	listener net.Listener
	server   *http.Server
	wg       sync.WaitGroup
}

// NewServer creates a server for svc. Call Start to begin listening, or use
// Handler directly.
func NewServer(svc *todos.Service, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		svc:      svc,
		hub:      config.Hub,
		addr:     config.Addr,
		basePath: strings.TrimSuffix(config.BasePath, "/"),
		registry: config.Registry,
		logger:   config.Logger,
	}
	if s.addr == "" {
		s.addr = ":3000"
	}
	if config.BasePath == "" {
		s.basePath = "/todos"
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	s.metrics = newMetrics(s.registry, svc)

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.instrument(mux)

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	p := s.basePath

	if p != "" {
		mux.HandleFunc("GET "+p, s.handleList)
		mux.HandleFunc("POST "+p, s.handleCreate)
	}
	mux.HandleFunc("GET "+p+"/{$}", s.handleList)
	mux.HandleFunc("POST "+p+"/{$}", s.handleCreate)

	mux.HandleFunc("GET "+p+"/day/{day}", s.handleListByDay)
	mux.HandleFunc("GET "+p+"/{id}", s.handleGet)
	mux.HandleFunc("PUT "+p+"/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE "+p+"/{id}", s.handleDelete)
	mux.HandleFunc("PUT "+p+"/{id}/toggle", s.handleToggle)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	if s.hub != nil {
		mux.Handle("GET /ws", s.hub)
	}
}

// Handler returns the instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("Listening on %s (todos at %s)", ln.Addr(), s.routeRoot())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.server = nil
	if err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.wg.Wait()
	s.logger.Println("Server stopped")
	return nil
}

// Addr returns the listening address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) routeRoot() string {
	if s.basePath == "" {
		return "/"
	}
	return s.basePath
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if s.hub != nil {
		clients = s.hub.ClientCount()
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"todos":   s.svc.Stats().Total,
		"clients": clients,
	})
}
