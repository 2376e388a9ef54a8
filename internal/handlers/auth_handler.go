package handlers

import (
	"context"
	"log"
	"net/http"

	"billingBack/internal/models"
	"billingBack/internal/services"
)

type AuthHandler struct {
	Service  *services.AuthService
	ErrorLog *log.Logger
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Service.AdminLogin)
}

func (h *AuthHandler) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Service.CustomerLogin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	resp, err := fn(ctx, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
