// Package httpapi exposes the pipeline as a small REST API for callers
// that do not speak MCP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/projectscout/projectscout/internal/booklet"
	"github.com/projectscout/projectscout/internal/catalog"
	"github.com/projectscout/projectscout/internal/config"
	"github.com/projectscout/projectscout/internal/ingest"
	"github.com/projectscout/projectscout/internal/pipeline"
	"github.com/projectscout/projectscout/internal/recommend"
)

const shutdownTimeout = 5 * time.Second

// Server serves the REST API over the shared pipeline
type Server struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	logger   *logrus.Logger
	router   chi.Router
}

// NewServer creates the REST API server
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger *logrus.Logger) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	s := &Server{
		config:   cfg,
		pipeline: p,
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.routes()

	return s, nil
}

// Router exposes the handler for tests and embedding
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/extract", s.handleExtract)
		r.Post("/extract-all", s.handleExtractAll)
		r.Post("/tokenize", s.handleTokenize)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/run", s.handleRun)
		r.Get("/stats", s.handleStats)
		r.Get("/keywords", s.handleKeywords)
		r.Get("/history", s.handleHistory)
	})
}

// Request bodies

type ingestRequest struct {
	Directory string `json:"directory"`
}

type extractRequest struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
}

type extractAllRequest struct {
	Directory string `json:"directory,omitempty"`
}

type tokenizeRequest struct {
	Catalog string `json:"catalog,omitempty"`
}

type recommendRequest struct {
	Statement string `json:"statement"`
	Catalog   string `json:"catalog,omitempty"`
	Top       int    `json:"top,omitempty"`
}

type runRequest struct {
	Statement string `json:"statement"`
	Path      string `json:"path,omitempty"`
	Top       int    `json:"top,omitempty"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": s.config.ServerName,
		"version": s.config.Version,
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Directory == "" {
		http.Error(w, "directory is required", http.StatusBadRequest)
		return
	}

	report, err := s.pipeline.Ingest(req.Directory)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	result, err := s.pipeline.ExtractFile(req.Path, req.Output)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtractAll(w http.ResponseWriter, r *http.Request) {
	var req extractAllRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.pipeline.ExtractAll(req.Directory)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req tokenizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.pipeline.Tokenize(req.Catalog)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Statement == "" {
		http.Error(w, "statement is required", http.StatusBadRequest)
		return
	}

	result, err := s.pipeline.Recommend(req.Statement, req.Catalog, req.Top)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Statement == "" {
		http.Error(w, "statement is required", http.StatusBadRequest)
		return
	}

	var result *pipeline.RunResult
	var err error
	if req.Path != "" {
		result, err = s.pipeline.RunFile(req.Path, req.Statement, req.Top)
	} else {
		result, err = s.pipeline.Run(req.Statement, req.Top)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pipeline.Stats(r.URL.Query().Get("catalog"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	top := queryInt(r, "top")
	keywords, err := s.pipeline.Keywords(r.URL.Query().Get("catalog"), top)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := s.pipeline.History(queryInt(r, "limit"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// Helpers

// decode parses a JSON request body. An empty body decodes to the zero
// value so callers relying on defaults can omit the body entirely.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, recommend.ErrQueryTooShort):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, booklet.ErrNoProjects):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, ingest.ErrNoPDFs),
		errors.Is(err, booklet.ErrNoPDFs):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed")
	}
	http.Error(w, err.Error(), status)
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// Run serves the API until the context is canceled, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.WithField("address", s.config.Address()).Info("REST API listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
