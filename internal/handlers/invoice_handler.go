package handlers

import (
	"log"
	"net/http"

	"billingBack/internal/services"
)

// InvoiceHandler serves the signed-in customer's invoices and bills.
type InvoiceHandler struct {
	Service  *services.InvoiceService
	ErrorLog *log.Logger
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	invoices, err := h.Service.ListForCustomer(ctx, customerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, invoices)
}

func (h *InvoiceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	invoiceID, err := parseID(r, "invoiceId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	detail, err := h.Service.DetailForCustomer(ctx, customerID, invoiceID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"invoice":   detail.Invoice,
		"payments":  detail.Payments,
		"meterInfo": detail.MeterInfo,
	})
}

func (h *InvoiceHandler) Bills(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	bills, err := h.Service.ListBills(ctx, customerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, bills)
}
