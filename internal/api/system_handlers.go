package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"

	apidocs "appshell/docs"
	"appshell/internal/spa"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// ReadinessResponse represents the JSON response for the readiness check
// endpoint.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleReady checks if the application is ready to accept traffic. Unlike
// /healthz (liveness), this verifies the embedded index document is present,
// the one dependency this binary has. An empty asset set means the UI was
// never built into the binary.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	checks := make(map[string]string)
	status := "ok"

	if _, ok := s.assets.Get(spa.IndexPath); ok {
		checks["index_document"] = "ok"
	} else {
		checks["index_document"] = "missing"
		status = "unhealthy"
		s.logger.ErrorContext(r.Context(), "readiness check failed", appendRequestID(r.Context(), []any{
			"check", "index_document",
		})...)
	}

	resp := ReadinessResponse{Status: status, Checks: checks}
	if status == "ok" {
		writeJSON(w, http.StatusOK, resp)
	} else {
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    s.version,
		"go_runtime": runtime.Version(),
		"variant":    s.variant.String(),
		"mount_path": s.mount,
	})
}

func (s *Server) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErr(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(apidocs.OpenAPISpec)
}

func (s *Server) handleTestSentry(w http.ResponseWriter, r *http.Request) {
	// Test endpoint to verify Sentry is working
	switch r.URL.Query().Get("type") {
	case "message":
		sentry.CaptureMessage("Sentry test message from appshell")
		sentry.Flush(2 * time.Second)
		writeJSON(w, http.StatusOK, map[string]string{"status": "message sent to Sentry"})
	case "error":
		s.writeErr(r.Context(), w, http.StatusInternalServerError, "test error for Sentry", "verifies Sentry integration")
	case "panic":
		panic("test panic for Sentry")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Sentry test endpoint",
			"usage":   "?type=message|error|panic",
		})
	}
}
