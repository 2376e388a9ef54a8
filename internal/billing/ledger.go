package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMode is stored when the payer does not name one.
const DefaultPaymentMode = "Other"

// InvoiceState is the view of an invoice a payment is accepted against.
type InvoiceState struct {
	ID         int64           `json:"invoiceId"`
	CustomerID int64           `json:"customerId"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	Status     Status          `json:"status"`
}

// Payment is an immutable ledger row.
type Payment struct {
	ID             int64               `json:"paymentId"`
	InvoiceID      int64               `json:"invoiceId"`
	Amount         decimal.Decimal     `json:"amountPaid"`
	PaidAt         time.Time           `json:"paymentDate"`
	Mode           string              `json:"paymentMode"`
	TransactionRef string              `json:"transactionRef"`
	UnitsConsumed  decimal.NullDecimal `json:"unitsConsumed"`
	Notes          string              `json:"notes,omitempty"`
}

// Receipt is what the payer sees once a payment is accepted.
type Receipt struct {
	PaymentID       int64           `json:"paymentId"`
	InvoiceID       int64           `json:"invoiceId"`
	CustomerID      int64           `json:"-"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PaymentDate     string          `json:"paymentDate"`
	PaymentMode     string          `json:"paymentMode"`
	TransactionRef  string          `json:"transactionRef"`
	InvoiceDate     string          `json:"invoiceDate"`
	InvoiceTotal    decimal.Decimal `json:"invoiceTotal"`
	InvoiceStatus   Status          `json:"invoiceStatus"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
}

// LedgerTx is the set of statements one payment runs inside a single transaction.
type LedgerTx interface {
	// LockInvoice loads the invoice and its paid total, holding a row lock
	// until the transaction ends.
	LockInvoice(ctx context.Context, invoiceID int64) (InvoiceState, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)
	InsertPayment(ctx context.Context, p Payment) (int64, error)
	// UpdateInvoiceStatus must only succeed while the stored status is still from.
	UpdateInvoiceStatus(ctx context.Context, invoiceID int64, from, to Status) error
	Receipt(ctx context.Context, paymentID int64) (Receipt, error)
}

// LedgerStore runs fn in a transaction, committing only when fn returns nil.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// Locker serializes work per key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// PaymentRequest asks the ledger to apply money to an invoice. CustomerID, when
// set, must own the invoice.
type PaymentRequest struct {
	InvoiceID      int64
	CustomerID     int64
	Amount         decimal.Decimal
	Mode           string
	TransactionRef string
	Notes          string
	UnitsConsumed  decimal.NullDecimal
}

// PaymentResult is returned for an accepted payment.
type PaymentResult struct {
	Payment     Payment
	Invoice     InvoiceState
	Outstanding decimal.Decimal
	Receipt     Receipt
}

// Ledger accepts payments one invoice at a time.
type Ledger struct {
	store  LedgerStore
	locker Locker
	now    func() time.Time
}

// NewLedger wires a ledger over store, serializing per invoice with locker.
func NewLedger(store LedgerStore, locker Locker) *Ledger {
	return &Ledger{store: store, locker: locker, now: time.Now}
}

// WithClock replaces the time source used to stamp payments.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	if now != nil {
		l.now = now
	}
	return l
}

func invoiceLockKey(id int64) string {
	return fmt.Sprintf("invoice:%d", id)
}

// RecordPayment validates and stores a payment, then moves the invoice status
// forward. The payment row and the status change commit together or not at all.
func (l *Ledger) RecordPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	ref := strings.TrimSpace(req.TransactionRef)
	if ref == "" {
		return PaymentResult{}, Invalid("transaction reference is required")
	}
	if req.InvoiceID <= 0 {
		return PaymentResult{}, Invalid("invoice id is required")
	}
	amount := Round2(req.Amount)
	if !req.Amount.IsPositive() || !amount.IsPositive() {
		return PaymentResult{}, ErrInvalidAmount
	}
	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = DefaultPaymentMode
	}

	unlock, err := l.locker.Lock(ctx, invoiceLockKey(req.InvoiceID))
	if err != nil {
		return PaymentResult{}, fmt.Errorf("lock invoice %d: %w", req.InvoiceID, err)
	}
	defer unlock()

	var res PaymentResult
	err = l.store.WithinTx(ctx, func(tx LedgerTx) error {
		inv, err := tx.LockInvoice(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if req.CustomerID != 0 && inv.CustomerID != req.CustomerID {
			return ErrForbidden
		}

		outstanding := Round2(inv.GrandTotal.Sub(inv.TotalPaid))
		if amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w of %s", ErrAmountExceedsOutstanding, Outstanding(inv.GrandTotal, inv.TotalPaid).StringFixed(2))
		}

		exists, err := tx.ReferenceExists(ctx, ref)
		if err != nil {
			return fmt.Errorf("check transaction reference: %w", err)
		}
		if exists {
			return ErrDuplicateReference
		}

		p := Payment{
			InvoiceID:      inv.ID,
			Amount:         amount,
			PaidAt:         l.now(),
			Mode:           mode,
			TransactionRef: ref,
			UnitsConsumed:  req.UnitsConsumed,
			Notes:          strings.TrimSpace(req.Notes),
		}
		p.ID, err = tx.InsertPayment(ctx, p)
		if err != nil {
			return err
		}

		totalPaid := inv.TotalPaid.Add(amount)
		next, err := Reconcile(inv.Status, totalPaid, inv.GrandTotal)
		if err != nil {
			return err
		}
		if next != inv.Status {
			if err := tx.UpdateInvoiceStatus(ctx, inv.ID, inv.Status, next); err != nil {
				return fmt.Errorf("update invoice %d status: %w", inv.ID, err)
			}
		}

		receipt, err := tx.Receipt(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("load receipt: %w", err)
		}

		inv.TotalPaid = totalPaid
		inv.Status = next
		res = PaymentResult{
			Payment:     p,
			Invoice:     inv,
			Outstanding: Outstanding(inv.GrandTotal, totalPaid),
			Receipt:     receipt,
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return res, nil
}
