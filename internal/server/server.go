// Package server implements the seedling web server: a server-side-rendered
// home page, an htmx fragment endpoint, static asset serving, and an optional
// live-reload layer for development.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/seedling-dev/seedling/internal/config"
	"github.com/seedling-dev/seedling/internal/livereload"
	"github.com/seedling-dev/seedling/internal/templates"
	"github.com/seedling-dev/seedling/internal/watcher"
)

// debounceDelay groups file-change bursts before a reload is broadcast.
const debounceDelay = 300 * time.Millisecond

// Server serves the web template. The configuration and template environment
// are built once in New and shared read-only by every request handler, so
// handlers need no locking of their own.
type Server struct {
	config *config.Config
	env    *templates.Environment

	// Development-only collaborators; nil when live reload is off.
	hub     *livereload.Hub
	watcher *watcher.FileWatcher

	mu           sync.Mutex
	httpServer   *http.Server
	shutdownOnce sync.Once
}

// New builds a Server from cfg. The templates directory must exist; a
// missing directory is a startup error rather than a per-request surprise.
func New(cfg *config.Config) (*Server, error) {
	if _, err := os.Stat(cfg.Templates.Dir); err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}

	s := &Server{
		config: cfg,
		env:    templates.NewDirEnvironment(cfg.Templates.Dir),
	}

	if cfg.Development.LiveReload {
		fw, err := watcher.NewFileWatcher(debounceDelay)
		if err != nil {
			return nil, fmt.Errorf("creating file watcher: %w", err)
		}
		s.hub = livereload.NewHub()
		s.watcher = fw
	}

	return s, nil
}

// Start runs the server until ctx is cancelled or the listener fails. Bind
// failures are returned to the caller, which exits the process.
func (s *Server) Start(ctx context.Context) error {
	if s.hub != nil {
		go s.hub.Run(ctx)
		if err := s.startWatching(ctx); err != nil {
			return fmt.Errorf("starting file watcher: %w", err)
		}
	}

	addr := s.config.Addr()

	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.handler(),
	}
	srv := s.httpServer
	s.mu.Unlock()

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// handler builds the route table. The live-reload endpoint and middleware
// are attached outside the page mux so websocket upgrades are never
// buffered.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /api/greet", s.handleGreet)
	mux.Handle("GET "+s.config.Static.Prefix,
		http.StripPrefix(s.config.Static.Prefix, http.FileServer(http.Dir(s.config.Static.Dir))))
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.hub == nil {
		return mux
	}

	outer := http.NewServeMux()
	outer.Handle("/ws", s.hub)
	outer.Handle("/", livereload.Middleware(mux))
	return outer
}

func (s *Server) startWatching(ctx context.Context) error {
	for _, dir := range []string{s.config.Templates.Dir, s.config.Static.Dir} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := s.watcher.AddRecursive(dir); err != nil {
			return err
		}
	}
	s.watcher.AddHandler(s.handleFileChange)
	s.watcher.Start(ctx)
	return nil
}

// handleFileChange drops cached templates and tells connected browsers to
// reload.
func (s *Server) handleFileChange(events []watcher.ChangeEvent) error {
	for _, event := range events {
		log.Printf("%s: %s", event.Type, event.Path)
	}
	s.env.Invalidate()
	s.hub.NotifyReload()
	return nil
}

// Shutdown stops the server gracefully. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.watcher != nil {
			if stopErr := s.watcher.Stop(); stopErr != nil {
				log.Printf("stopping watcher: %v", stopErr)
			}
		}

		s.mu.Lock()
		srv := s.httpServer
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
	})
	return err
}
