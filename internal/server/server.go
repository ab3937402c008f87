// Package server exposes the visualization pipeline over HTTP.
//
// The API is read-only JSON plus one SVG surface:
//
//	GET /healthz        liveness probe
//	GET /api/graph      flat rows, {"data": [...]}
//	GET /api/layout     positioned nodes and edges
//	GET /api/graph.svg  rendered SVG
//
// Core failures are never leaked to clients: every pipeline error maps to
// a single generic message while the classified code goes to the log.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arborview/arborview/pkg/errors"
	"github.com/arborview/arborview/pkg/pipeline"
	"github.com/arborview/arborview/pkg/store"
)

// Server handles HTTP requests for graph data and rendered views.
type Server struct {
	runner *pipeline.Runner
	seeder *store.Seeder
	opts   pipeline.Options
	logger *log.Logger
}

// NewServer creates a server around a pipeline runner. The seeder may be
// nil when rows come from a remote source instead of a store; when set,
// every data request seeds an empty store before reading. opts carries the
// configured layout and render defaults.
func NewServer(runner *pipeline.Runner, seeder *store.Seeder, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, seeder: seeder, opts: opts, logger: logger}
}

// Router builds the HTTP routing table with the standard middleware
// stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/layout", s.handleLayout)
		r.Get("/graph.svg", s.handleSVG)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGraph returns the flat rows wrapped in a data envelope, the same
// shape the normalizer accepts as input.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.ensureSeeded(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.runner.Rows(r.Context(), s.requestOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.ensureSeeded(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), s.requestOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	if err := s.ensureSeeded(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.requestOptions(r)
	opts.Formats = []string{pipeline.FormatSVG}
	if err := parseRenderParams(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Run(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatSVG])
}

// ensureSeeded populates an empty backing store on first access. Repeat
// calls are cheap no-ops once the store holds rows.
func (s *Server) ensureSeeded(r *http.Request) error {
	if s.seeder == nil {
		return nil
	}
	seeded, err := s.seeder.Seed(r.Context())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "seed store")
	}
	if seeded {
		s.logger.Info("seeded empty store", "request_id", RequestID(r.Context()))
	}
	return nil
}

// requestOptions derives per-request pipeline options from the configured
// defaults.
func (s *Server) requestOptions(r *http.Request) pipeline.Options {
	opts := s.opts
	if r.URL.Query().Get("refresh") == "true" {
		opts.Refresh = true
	}
	return opts
}

// writeError logs the classified failure and answers with a status-coded
// JSON body. Clients only ever see the generic message for server-side
// failures.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = errors.Classify(err)
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	message := errors.GenericMessage
	switch code {
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
		message = errors.UserMessage(err)
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
		message = errors.UserMessage(err)
	}

	s.logger.Error("request failed",
		"request_id", RequestID(r.Context()),
		"path", r.URL.Path,
		"code", code,
		"error", err)
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
