package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the legacy per-account bill. Status is derived on read from the
// account's invoices; it is not stored.
type Bill struct {
	ID                 int64               `json:"billId"`
	CustomerID         int64               `json:"customerId"`
	MeterID            int64               `json:"meterId"`
	IssueDate          time.Time           `json:"issueDate"`
	DueDate            *time.Time          `json:"dueDate"`
	RatePerUnit        decimal.Decimal     `json:"ratePerUnit"`
	Status             int                 `json:"status"`
	Paid               bool                `json:"paid"`
	LatestInvoiceID    *int64              `json:"invoiceId"`
	LatestInvoiceTotal decimal.NullDecimal `json:"grandTotal"`
}
