package api

import (
	"net/http"

	"github.com/poiesic/formgen/storage/badger"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend *badger.Backend
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(backend *badger.Backend) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// RegisterRoutes registers health check routes on the mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

// liveness returns 200 if the server process is running.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns 200 if the server can serve traffic, 503 otherwise.
func (h *HealthHandler) readiness(w http.ResponseWriter, _ *http.Request) {
	if h.backend == nil || h.backend.IsClosed() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "storage backend unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
