package api

import (
	"context"
	"net/http"
	"time"

	"github.com/campushub/backend/internal/api/respond"
)

// HealthPinger is implemented by store adapters that can probe their
// backing server.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// HealthHandler handles liveness and dependency health endpoints.
type HealthHandler struct {
	pinger HealthPinger
}

func NewHealthHandler(p HealthPinger) *HealthHandler { return &HealthHandler{pinger: p} }

// Root GET / — constant liveness payload.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Server is active"})
}

// Check GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckStore GET /api/health/db
func (h *HealthHandler) CheckStore(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "unknown"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.pinger.HealthPing(ctx); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
