package models

import (
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
)

// Invoice is one billing event for a customer.
type Invoice struct {
	ID            int64               `json:"invoiceId"`
	CustomerID    int64               `json:"customerId"`
	CustomerName  string              `json:"customerName,omitempty"`
	InvoiceDate   time.Time           `json:"invoiceDate"`
	BaseAmount    decimal.Decimal     `json:"baseAmount"`
	Tax           decimal.Decimal     `json:"tax"`
	GrandTotal    decimal.Decimal     `json:"grandTotal"`
	Status        billing.Status      `json:"status"`
	DueDate       *time.Time          `json:"dueDate,omitempty"`
	AmountPaid    decimal.Decimal     `json:"amountPaid"`
	Outstanding   decimal.Decimal     `json:"outstanding"`
	UnitsConsumed decimal.NullDecimal `json:"unitsConsumed"`
}

// InvoiceDetail is what a customer sees when opening one invoice.
type InvoiceDetail struct {
	Invoice   Invoice          `json:"invoice"`
	Payments  []PaymentSummary `json:"payments"`
	MeterInfo *Meter           `json:"meterInfo"`
}

// OverdueSummary aggregates invoices past their due date that are still open.
type OverdueSummary struct {
	Count       int             `json:"count"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
