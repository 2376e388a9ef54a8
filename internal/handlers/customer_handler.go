package handlers

import (
	"log"
	"net/http"

	"billingBack/internal/models"
	"billingBack/internal/services"
)

type CustomerHandler struct {
	Service  *services.CustomerService
	ErrorLog *log.Logger
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	customers, err := h.Service.List(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	detail, err := h.Service.Detail(ctx, id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": detail.Customer,
		"invoices": detail.Invoices,
		"payments": detail.Payments,
		"meters":   detail.Meters,
	})
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
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

	created, err := h.Service.Create(ctx, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req models.UpdateCustomerRequest
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

	customer, err := h.Service.Update(ctx, id, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "customer": customer})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.Delete(ctx, id); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Customer deleted successfully"})
}

func (h *CustomerHandler) AddMeter(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req models.MeterRequest
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

	meterID, err := h.Service.AddMeter(ctx, id, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "meterId": meterID})
}

func (h *CustomerHandler) Meters(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	meters, err := h.Service.Meters(ctx, id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, meters)
}

func (h *CustomerHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "custId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	invoices, err := h.Service.Invoices(ctx, id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, invoices)
}

// Meter handles GET /api/meters/:meterId for any signed-in caller. Customers
// only see their own meters.
func (h *CustomerHandler) Meter(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "meterId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	meter, err := h.Service.Meter(ctx, id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if callerID, role, _ := Identity(r.Context()); role == models.RoleCustomer && meter.CustomerID != callerID {
		writeError(w, http.StatusNotFound, "meter not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "meter": meter})
}
