package handlers

import (
	"log"
	"net/http"

	"billingBack/internal/models"
	"billingBack/internal/services"
)

type FeedbackHandler struct {
	Service  *services.FeedbackService
	ErrorLog *log.Logger
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	fb, err := h.Service.Submit(ctx, customerID, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Feedback submitted successfully",
		"feedbackId": fb.ID,
	})
}

func (h *FeedbackHandler) Mine(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	items, err := h.Service.ListForCustomer(ctx, customerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, items)
}

func (h *FeedbackHandler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	items, err := h.Service.ListAll(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, items)
}
