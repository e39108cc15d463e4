package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *healthHandler {
	return &healthHandler{store: store}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. It never touches dependencies.
func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Readyz reports 503 until the database answers a ping.
func (h *healthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeHealth(w, http.StatusServiceUnavailable, healthResponse{
			Status: "unhealthy",
			Checks: map[string]string{"database": "error: " + err.Error()},
		})
		return
	}

	writeHealth(w, http.StatusOK, healthResponse{
		Status: "ok",
		Checks: map[string]string{"database": "ok"},
	})
}

func writeHealth(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
