package handlers

import (
	"log"
	"net/http"

	"billingBack/internal/services"
)

type TariffHandler struct {
	Service  *services.TariffService
	ErrorLog *log.Logger
}

func (h *TariffHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	tariffs, err := h.Service.List(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, tariffs)
}
