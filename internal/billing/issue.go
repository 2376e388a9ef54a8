package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDueDays is used when an invoice is issued without a due date.
const DefaultDueDays = 20

// InvoiceDraft is a freshly calculated invoice, not yet stored.
type InvoiceDraft struct {
	CustomerID int64
	IssuedAt   time.Time
	Amounts    Amounts
	DueDate    time.Time
}

// LegacyBill is the per-account bill row kept for older clients.
type LegacyBill struct {
	CustomerID  int64
	MeterID     int64
	IssuedAt    time.Time
	DueDate     time.Time
	RatePerUnit decimal.Decimal
}

// IssueTx is the set of statements invoice issuance runs in one transaction.
// Nothing here touches payments or invoice status.
type IssueTx interface {
	CustomerExists(ctx context.Context, customerID int64) (bool, error)
	InsertInvoice(ctx context.Context, d InvoiceDraft) (int64, error)
	// InvoiceOwner returns ErrNotFound when the invoice does not exist.
	InvoiceOwner(ctx context.Context, invoiceID int64) (int64, error)
	SetInvoiceDueDate(ctx context.Context, invoiceID int64, due time.Time) error
	LatestBill(ctx context.Context, customerID int64) (billID int64, ok bool, err error)
	SetBillDueDate(ctx context.Context, billID int64, due time.Time) error
	FirstMeter(ctx context.Context, customerID int64) (meterID int64, ok bool, err error)
	InsertBill(ctx context.Context, b LegacyBill) (int64, error)
}

// IssueStore runs fn in a transaction, committing only when fn returns nil.
type IssueStore interface {
	WithinIssueTx(ctx context.Context, fn func(tx IssueTx) error) error
}
