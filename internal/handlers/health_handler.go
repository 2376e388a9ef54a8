package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB       pinger
	ErrorLog *log.Logger
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.DB.PingContext(ctx); err != nil {
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("health check: %v", err)
		}
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false, "message": "Database unreachable", "timestamp": now,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "message": "Server is running", "timestamp": now,
	})
}
