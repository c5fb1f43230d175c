// Package server exposes computed layouts over HTTP: a JSON API, SVG
// and PNG endpoints, and a websocket that pushes a notification
// whenever the watched repository changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mvollmer/lanegraph/pkg/pipeline"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8087".
	Addr string

	// RepoPath is the repository to watch for changes; empty disables
	// watching.
	RepoPath string

	// Debounce is the quiet period after a filesystem event before the
	// layout is recomputed.
	Debounce time.Duration

	// Options are the pipeline options applied to every request.
	Options pipeline.Options
}

// Server serves layouts for a single repository.
type Server struct {
	cfg    Config
	src    pipeline.Provider
	runner *pipeline.Runner
	logger *log.Logger
	hub    *Hub
}

// New creates a server around the given source and runner.
func New(cfg Config, src pipeline.Provider, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	return &Server{
		cfg:    cfg,
		src:    src,
		runner: runner,
		logger: logger,
		hub:    newHub(logger),
	}
}

// Hub exposes the websocket hub, mainly for tests.
func (s *Server) Hub() *Hub { return s.hub }

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/graph.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/api/graph.png", s.handleArtifact(pipeline.FormatPNG, "image/png"))
	r.Get("/api/graph.dot", s.handleArtifact(pipeline.FormatDOT, "text/vnd.graphviz"))
	r.Get("/ws", s.hub.HandleWS)
	return r
}

// Run serves until ctx is canceled, watching the repository in the
// background when configured.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.RepoPath != "" {
		go s.watch(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// graphResponse is the JSON API shape for GET /api/graph.
type graphResponse struct {
	RunID      string          `json:"run_id"`
	CurrentRef string          `json:"current_ref"`
	Heads      json.RawMessage `json:"heads"`
	Layout     json.RawMessage `json:"layout"`
	LayoutHash string          `json:"layout_hash"`
	Stats      pipeline.Stats  `json:"stats"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Options
	opts.Formats = []string{pipeline.FormatJSON}
	result, err := s.executeWith(r, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.notModified(w, r, result.LayoutHash) {
		return
	}

	heads, err := json.Marshal(result.Heads)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", fmt.Sprintf("%q", result.LayoutHash))
	_ = json.NewEncoder(w).Encode(graphResponse{
		RunID:      result.RunID,
		CurrentRef: result.CurrentRef,
		Heads:      heads,
		Layout:     result.Artifacts[pipeline.FormatJSON],
		LayoutHash: result.LayoutHash,
		Stats:      result.Stats,
	})
}

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.cfg.Options
		opts.Formats = []string{format}
		result, err := s.executeWith(r, opts)
		if err != nil {
			s.fail(w, err)
			return
		}
		if s.notModified(w, r, result.LayoutHash) {
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("ETag", fmt.Sprintf("%q", result.LayoutHash))
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *Server) executeWith(r *http.Request, opts pipeline.Options) (*pipeline.Result, error) {
	if ref := r.URL.Query().Get("ref"); ref != "" {
		opts.Ref = ref
	}
	if r.URL.Query().Get("refresh") == "true" {
		opts.Refresh = true
	}
	return s.runner.Execute(r.Context(), s.src, opts)
}

func (s *Server) notModified(w http.ResponseWriter, r *http.Request, hash string) bool {
	if match := r.Header.Get("If-None-Match"); match != "" && match == fmt.Sprintf("%q", hash) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
