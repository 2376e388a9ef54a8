package handlers

import (
	"log"
	"net/http"

	"billingBack/internal/services"
)

type DashboardHandler struct {
	Service  *services.DashboardService
	ErrorLog *log.Logger
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	stats, err := h.Service.Admin(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

func (h *DashboardHandler) Customer(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	d, err := h.Service.Customer(ctx, customerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "dashboard": d})
}
