// Package api is the read-only presentation surface: it lists the
// current roster and reports daemon health. It never mutates the
// roster — no mutating route exists.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sensorlog/presenced/internal/ingest"
	"github.com/sensorlog/presenced/internal/roster"
)

// StatusReporter exposes the ingest loop's connection state.
type StatusReporter interface {
	State() ingest.State
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	store  roster.Store
	status StatusReporter
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(store roster.Store, status StatusReporter) http.Handler {
	h := &Handler{store: store, status: status, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/roster", h.listRoster)
	h.mux.HandleFunc("GET /v1/roster/{name}", h.checkPresence)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /v1/roster — all current presence records, newest arrival first.
func (h *Handler) listRoster(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []roster.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// GET /v1/roster/{name} — membership check for one identity.
func (h *Handler) checkPresence(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	present, err := h.store.Exists(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    name,
		"present": present,
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 until the ingest loop is listening to the device.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	state := h.status.State()
	if state != ingest.StateListening {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"ingest": state.String(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"ingest": state.String(),
	})
}
