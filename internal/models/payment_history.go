package models

import (
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
)

// PaymentSummary is one payment in an invoice or customer history.
type PaymentSummary struct {
	ID             int64           `json:"paymentId"`
	InvoiceID      int64           `json:"invoiceId"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	PaymentDate    time.Time       `json:"paymentDate"`
	PaymentMode    string          `json:"paymentMode"`
	TransactionRef string          `json:"transactionRef"`
}

// PaymentListItem is one row of the admin payments view. Open invoices
// without payments are listed too, with a nil ID and the Unpaid status.
type PaymentListItem struct {
	ID             *int64          `json:"paymentId"`
	InvoiceID      int64           `json:"invoiceId"`
	CustomerID     int64           `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Method         string          `json:"method"`
	TransactionRef *string         `json:"transactionRef"`
	Status         string          `json:"status"`
	InvoiceStatus  billing.Status  `json:"invoiceStatus"`
	RecordType     string          `json:"recordType"`
}

type PaymentFilter struct {
	Search     string
	Status     string
	Method     string
	CustomerID int64
	Limit      int
}

type PaymentStats struct {
	TotalPayments        int             `json:"totalPayments"`
	TotalAmountCollected decimal.Decimal `json:"totalAmountCollected"`
	PendingPayments      int             `json:"pendingPayments"`
}

type PaymentDetail struct {
	PaymentSummary
	UnitsConsumed decimal.NullDecimal `json:"unitsConsumed"`
	Notes         *string             `json:"notes"`
	Invoice       Invoice             `json:"invoice"`
	Customer      Customer            `json:"customer"`
}

// AdminPaymentRequest is the body of POST /api/admin/payment.
type AdminPaymentRequest struct {
	CustomerID       FlexInt64       `json:"customerId" validate:"required,gt=0"`
	UnitsConsumed    decimal.Decimal `json:"unitsConsumed"`
	TariffID         FlexInt64       `json:"tariffId" validate:"required,gt=0"`
	InvoiceID        FlexInt64       `json:"invoiceId" validate:"omitempty,gt=0"`
	CreateNewInvoice bool            `json:"createNewInvoice"`
	DueDate          string          `json:"dueDate"`
}

// PayRequest is the body of POST /api/customer/pay.
type PayRequest struct {
	InvoiceID      FlexInt64           `json:"invoiceId" validate:"required,gt=0"`
	Amount         decimal.Decimal     `json:"amount"`
	PaymentMode    string              `json:"paymentMode" validate:"max=30"`
	TransactionRef string              `json:"transactionRef" validate:"required,max=64"`
	Notes          string              `json:"notes" validate:"max=255"`
	UnitsConsumed  decimal.NullDecimal `json:"unitsConsumed"`
}
