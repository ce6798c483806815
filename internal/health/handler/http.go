package handler

import (
	"context"
	"net/http"
	"time"

	"arc-staff-portal/internal/server/respond"
)

// Pinger is the database health probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves liveness/readiness for load balancers and CI.
type Handler struct {
	db Pinger
}

// NewHandler returns the health HTTP handler. db may be nil; readiness then
// reports ok without a database probe.
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Healthz handles GET /api/healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
