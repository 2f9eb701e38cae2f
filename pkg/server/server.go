// Package server serves catalog diagrams over HTTP for live previews.
//
// Routes:
//
//	GET /healthz                   liveness probe
//	GET /diagrams                  JSON list of diagrams
//	GET /diagrams/{name}.{format}  rendered diagram (png, svg, pdf, jpg, dot)
//
// Rendering goes through a [pipeline.Runner], so artifacts are cached exactly
// as they are for the CLI. Status codes: 400 for an unsupported format, 404
// for an unknown diagram, 422 for a diagram that fails to compose, 502 when
// the layout engine fails and 504 when it times out.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = ":8080"

const shutdownTimeout = 10 * time.Second

// Server renders catalog diagrams on request.
type Server struct {
	catalog *catalog.Catalog
	style   diagram.Style
	runner  *pipeline.Runner
	logger  *log.Logger
}

// New creates a server for cat. Diagrams are built with style on every
// request, so the catalog may change between requests.
func New(cat *catalog.Catalog, style diagram.Style, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{catalog: cat, style: style, runner: runner, logger: logger}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/healthz", s.health)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.list)
		r.Get("/{file}", s.diagram)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	s.logger.Info("preview server stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// Summary describes a diagram in the /diagrams listing.
type Summary struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Links       map[string]string `json:"links"`
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	entries := s.catalog.List()
	out := make([]Summary, len(entries))
	for i, e := range entries {
		links := make(map[string]string)
		for _, f := range render.Formats() {
			links[f] = "/diagrams/" + e.Name + "." + f
		}
		out[i] = Summary{Name: e.Name, Title: e.Title, Description: e.Description, Links: links}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	name, format := splitFile(chi.URLParam(r, "file"))
	if format == "" {
		writeError(w, http.StatusBadRequest, "missing format extension")
		return
	}
	if err := render.ValidateFormat(format); err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	d, err := s.catalog.Build(name, s.style)
	if err != nil {
		s.fail(w, name, err)
		return
	}
	data, hit, err := s.runner.RenderBytes(r.Context(), d, format)
	if err != nil {
		s.fail(w, name, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, name string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "diagram", name, "err", err)
	}
	var ee *errors.EngineError
	if stderrors.As(err, &ee) && ee.Diagnostics != "" {
		writeError(w, status, ee.Diagnostics)
		return
	}
	writeError(w, status, errors.UserMessage(err))
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var ee *errors.EngineError
	if stderrors.As(err, &ee) {
		if stderrors.Is(ee.Cause, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidAttribute, errors.ErrCodeUnknownEndpoint, errors.ErrCodeCycleDetected:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	if stderrors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// splitFile splits "name.ext" at the last dot.
func splitFile(file string) (name, format string) {
	ext := path.Ext(file)
	if ext == "" {
		return file, ""
	}
	return strings.TrimSuffix(file, ext), strings.ToLower(ext[1:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// hooksMiddleware reports every request to the registered HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
