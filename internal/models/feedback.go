package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Feedback struct {
	ID            int64               `json:"feedbackId"`
	CustomerID    int64               `json:"customerId"`
	CustomerName  string              `json:"customerName,omitempty"`
	CustomerEmail string              `json:"customerEmail,omitempty"`
	InvoiceID     *int64              `json:"invoiceId"`
	InvoiceDate   *time.Time          `json:"invoiceDate"`
	InvoiceTotal  decimal.NullDecimal `json:"invoiceTotal"`
	InvoiceStatus string              `json:"invoiceStatus,omitempty"`
	Text          string              `json:"text"`
	Rating        *int                `json:"rating"`
	CreatedAt     time.Time           `json:"date"`
}

// FeedbackRequest treats a zero or empty invoiceId and rating as not given.
type FeedbackRequest struct {
	InvoiceID FlexInt64 `json:"invoiceId" validate:"omitempty,gt=0"`
	Text      string    `json:"text" validate:"required,max=500"`
	Rating    FlexInt64 `json:"rating" validate:"omitempty,min=1,max=5"`
}
