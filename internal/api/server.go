// Package api wires the neodash HTTP surface: the asteroids JSON endpoint,
// health probes, Prometheus metrics and the server-rendered dashboard.
package api

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/star/neodash/internal/asteroids"
	"github.com/star/neodash/internal/config"
	"github.com/star/neodash/internal/health"
	"github.com/star/neodash/internal/httputil"
	"github.com/star/neodash/internal/metrics"
	"github.com/star/neodash/internal/table"
)

// defaultWriteTimeout must outlast one upstream feed call.
const defaultWriteTimeout = 45 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	TrustProxy   bool
	DefaultDate  string
	WriteTimeout time.Duration
	Formatter    *table.Formatter
	Web          fs.FS // must contain dashboard.html and styles.css
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(opts Options, svc *asteroids.Service, logger *slog.Logger) (*Server, error) {
	if opts.DefaultDate == "" {
		opts.DefaultDate = config.DefaultDashboardDate
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.Formatter == nil {
		opts.Formatter = table.DefaultFormatter()
	}

	tmpl, err := template.ParseFS(opts.Web, "dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	dash := &dashboard{
		svc:         svc,
		tmpl:        tmpl,
		formatter:   opts.Formatter,
		defaultDate: opts.DefaultDate,
		now:         time.Now,
		logger:      logger.With("component", "dashboard"),
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/asteroids", asteroidsHandler(svc))
	mux.HandleFunc("GET /static/styles.css", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, opts.Web, "styles.css")
	})
	mux.Handle("GET /{$}", dash)

	// Build middleware chain: metrics -> request id -> logging -> recover -> mux.
	var handler http.Handler = mux
	handler = recoverMiddleware(logger)(handler)
	handler = loggingMiddleware(logger, opts.TrustProxy)(handler)
	handler = httputil.RequestIDMiddleware(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// asteroidsHandler serves GET /api/asteroids?date=YYYY-MM-DD.
func asteroidsHandler(svc *asteroids.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.Lookup(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			status, msg := asteroids.StatusFor(err)
			httputil.WriteError(w, status, msg)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, feed)
	}
}
