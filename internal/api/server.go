// Package api hosts the appshell HTTP server: the SPA routes plus the
// operational endpoints around them.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	"appshell/internal/observability"
	"appshell/internal/spa"
)

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Server wires the SPA router and system endpoints onto a ServeMux.
type Server struct {
	mux     *http.ServeMux
	logger  observability.Logger
	metrics *observability.Metrics
	version string
	mount   string
	variant spa.Variant
	assets  spa.Provider
	router  *spa.Router
}

// NewServer creates a new HTTP server serving the given asset set.
// If logger is nil, a default logger is used. If metrics is nil, metrics
// collection is disabled.
func NewServer(mux *http.ServeMux, assets spa.Provider, mount string, variant spa.Variant, logger observability.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = observability.NewLogger(observability.DefaultConfig())
	}
	router := spa.NewRouter(mount, assets, variant)
	if metrics != nil {
		router.SetObserver(func(o spa.Outcome) {
			metrics.RecordAssetServe(string(o))
		})
	}
	return &Server{
		mux:     mux,
		logger:  logger,
		metrics: metrics,
		version: "dev",
		mount:   mount,
		variant: variant,
		assets:  assets,
		router:  router,
	}
}

// SetVersion sets the version reported by /healthz and /api/v1/version.
func (s *Server) SetVersion(v string) {
	if v != "" {
		s.version = v
	}
}

// RegisterRoutes wires all routes. System endpoints are registered before the
// SPA routes so mux precedence keeps them out of the catch-all.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/readyz", s.handleReady)
	s.mux.HandleFunc("/openapi.yaml", s.handleOpenAPISpec)
	s.mux.HandleFunc("/api/v1/version", s.handleVersion)
	s.mux.HandleFunc("/api/v1/test-sentry", s.handleTestSentry)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}
	s.router.Register(s.mux)
}

func (s *Server) writeErr(ctx context.Context, w http.ResponseWriter, code int, msg string, detail string) {
	fields := []any{
		"status", code,
		"error", msg,
	}
	if detail != "" {
		fields = append(fields, "detail", detail)
	}
	fields = appendRequestID(ctx, fields)
	if code >= 500 {
		s.logger.ErrorContext(ctx, "request failed", fields...)
		sentry.CaptureMessage(fmt.Sprintf("HTTP %d: %s (detail: %s)", code, msg, detail))
	} else {
		s.logger.WarnContext(ctx, "request failed", fields...)
	}
	writeJSON(w, code, apiError{Error: msg, Detail: detail})
}
