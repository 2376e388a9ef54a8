package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
	"billingBack/internal/services"
)

type invoiceIssuer interface {
	Issue(ctx context.Context, req services.IssueRequest) (services.IssueResult, error)
}

type paymentProcessor interface {
	Pay(ctx context.Context, req billing.PaymentRequest) (billing.PaymentResult, error)
	List(ctx context.Context, f models.PaymentFilter) ([]models.PaymentListItem, error)
	Stats(ctx context.Context) (models.PaymentStats, error)
	Detail(ctx context.Context, paymentID int64) (models.PaymentDetail, error)
}

type PaymentHandler struct {
	Invoices invoiceIssuer
	Payments paymentProcessor
	ErrorLog *log.Logger
}

type calculated struct {
	UnitsConsumed     decimal.Decimal `json:"unitsConsumed"`
	TariffID          int64           `json:"tariffId"`
	TariffDescription string          `json:"tariffDescription"`
	UnitRate          decimal.Decimal `json:"unitRate"`
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	Tax               decimal.Decimal `json:"tax"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
}

type issueResponse struct {
	Success    bool           `json:"success"`
	Invoice    models.Invoice `json:"invoice"`
	Message    string         `json:"message"`
	Calculated calculated     `json:"calculated"`
}

// IssueInvoice handles POST /api/admin/payment. Despite the route name it only
// computes and stores an invoice; payments are recorded by customers.
func (h *PaymentHandler) IssueInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.AdminPaymentRequest
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

	res, err := h.Invoices.Issue(ctx, services.IssueRequest{
		CustomerID:    req.CustomerID.Int64(),
		UnitsConsumed: req.UnitsConsumed,
		TariffID:      req.TariffID.Int64(),
		InvoiceID:     req.InvoiceID.Int64(),
		CreateNew:     req.CreateNewInvoice,
		DueDate:       req.DueDate,
	})
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	status, message := http.StatusOK, "Invoice updated successfully"
	if res.Created {
		status, message = http.StatusCreated, "Invoice created successfully"
	}
	writeJSON(w, status, issueResponse{
		Success: true,
		Invoice: res.Invoice,
		Message: message,
		Calculated: calculated{
			UnitsConsumed:     res.Amounts.Units,
			TariffID:          res.Tariff.ID,
			TariffDescription: res.Tariff.Description,
			UnitRate:          res.Amounts.Rate,
			BaseAmount:        res.Amounts.Base,
			Tax:               res.Amounts.Tax,
			GrandTotal:        res.Amounts.GrandTotal,
			AmountPaid:        res.Amounts.GrandTotal,
		},
	})
}

type invoiceView struct {
	billing.InvoiceState
	Outstanding decimal.Decimal `json:"outstanding"`
}

type payResponse struct {
	Success bool            `json:"success"`
	Payment billing.Payment `json:"payment"`
	Invoice invoiceView     `json:"invoice"`
	Receipt billing.Receipt `json:"receipt"`
	Message string          `json:"message"`
}

// Pay handles POST /api/customer/pay for the authenticated customer.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	customerID, _, ok := Identity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.PayRequest
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

	res, err := h.Payments.Pay(ctx, billing.PaymentRequest{
		InvoiceID:      req.InvoiceID.Int64(),
		CustomerID:     customerID,
		Amount:         req.Amount,
		Mode:           req.PaymentMode,
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
		UnitsConsumed:  req.UnitsConsumed,
	})
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	writeJSON(w, http.StatusCreated, payResponse{
		Success: true,
		Payment: res.Payment,
		Invoice: invoiceView{InvoiceState: res.Invoice, Outstanding: res.Outstanding},
		Receipt: res.Receipt,
		Message: "Payment processed successfully",
	})
}

// List handles GET /api/admin/payments?search=&status=&method=&customerId=&limit=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.PaymentFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: q.Get("status"),
		Method: q.Get("method"),
	}
	if f.Status == "all" {
		f.Status = ""
	}
	if f.Method == "all" {
		f.Method = ""
	}
	if v := q.Get("customerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid customerId")
			return
		}
		f.CustomerID = id
	}
	if v := q.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = l
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	items, err := h.Payments.List(ctx, f)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeList(w, items)
}

func (h *PaymentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	stats, err := h.Payments.Stats(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}

func (h *PaymentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "paymentId")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}

	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	detail, err := h.Payments.Detail(ctx, id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "payment": detail})
}
