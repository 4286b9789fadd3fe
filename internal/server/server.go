// Package server exposes the netarc pipeline over HTTP.
//
// # Routes
//
//	POST /v1/route             diagram JSON → layout JSON
//	POST /v1/render?format=svg diagram JSON → rendered artifact
//	GET  /healthz              liveness, cache reachability and build version
//	GET  /metrics              Prometheus metrics, when configured
//
// /v1/route and /v1/render accept the query parameters engine, samples and
// refresh; /v1/render also takes labels, background and scale. Every
// response carries an X-Request-ID header.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/netarc/pkg/buildinfo"
	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/errors"
	"github.com/matzehuels/netarc/pkg/graph"
	"github.com/matzehuels/netarc/pkg/pipeline"
)

// Header names.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderCache     = "X-Netarc-Cache"
)

// Options configures a Server.
type Options struct {
	// Defaults are the pipeline options requests start from.
	Defaults pipeline.Options

	// MaxBodyBytes limits request bodies. Zero means 10 MiB.
	MaxBodyBytes int64

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/route", s.handleRoute)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handlers
// =============================================================================

// handleHealth reports 503 when a remote cache does not answer.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.runner.Cache.(cache.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			loggerFromContext(r.Context(), s.logger).Warn("cache unavailable", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"version": buildinfo.Version,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	d, opts, ok := s.decode(w, r)
	if !ok {
		return
	}

	placed, placeHit, err := s.runner.Place(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	layout, routeHit, err := s.runner.Route(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := graph.MarshalLayout(layout)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	setCacheHeader(w, routeHit && (placed == 0 || placeHit))
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	d, opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}
	if v := q.Get("labels"); v != "" {
		labels, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "labels: %q is not a boolean", v))
			return
		}
		opts.Labels = labels
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale: %q is not a number", v))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Execute(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setCacheHeader(w, res.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads the diagram body and the shared query options. It writes
// the error response itself and reports whether handling can continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*graph.Diagram, pipeline.Options, bool) {
	opts := s.opts.Defaults
	opts.Logger = loggerFromContext(r.Context(), s.logger)

	q := r.URL.Query()
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "samples: %q is not an integer", v))
			return nil, opts, false
		}
		opts.Samples = n
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v))
			return nil, opts, false
		}
		opts.Refresh = refresh
	}

	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	d, err := graph.ReadDiagram(body, graph.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	return d, opts, true
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		loggerFromContext(r.Context(), s.logger).Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: requestIDFromContext(r.Context()),
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDiagram, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeConfiguration:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
