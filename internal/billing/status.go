package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPaid          Status = "Paid"
)

// OpenStatuses are the statuses that still accept payments.
var OpenStatuses = []Status{StatusPending, StatusPartiallyPaid}

var statusRank = map[Status]int{
	StatusPending:       0,
	StatusPartiallyPaid: 1,
	StatusPaid:          2,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus converts a stored value into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown invoice status %q", v)
	}
	return s, nil
}

// Round2 rounds a money value to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Outstanding returns what is still owed on an invoice, in cents, never negative.
func Outstanding(grandTotal, totalPaid decimal.Decimal) decimal.Decimal {
	out := Round2(grandTotal.Sub(totalPaid))
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Derive computes the status implied by the amount paid so far. Both sides are
// compared at cent precision so that paying the rounded outstanding balance
// settles the invoice.
func Derive(totalPaid, grandTotal decimal.Decimal) Status {
	paid := Round2(totalPaid)
	total := Round2(grandTotal)

	switch {
	case !paid.IsPositive():
		return StatusPending
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}

// CanTransition reports whether an invoice may move from one status to another.
// Staying in place is allowed; moving backward never is.
func CanTransition(from, to Status) bool {
	f, ok := statusRank[from]
	if !ok {
		return false
	}
	t, ok := statusRank[to]
	if !ok {
		return false
	}
	return t >= f
}

// Reconcile derives the next status for an invoice currently in current.
func Reconcile(current Status, totalPaid, grandTotal decimal.Decimal) (Status, error) {
	next := Derive(totalPaid, grandTotal)
	if !CanTransition(current, next) {
		return current, fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, current, next)
	}
	return next, nil
}

// BillPaid is the legacy paid flag of a bill, derived from the number of its
// account's invoices that are still open.
func BillPaid(openInvoices int) bool {
	return openInvoices == 0
}

// LegacyBillFlag renders BillPaid the way older consumers expect it (1 = paid).
func LegacyBillFlag(openInvoices int) int {
	if BillPaid(openInvoices) {
		return 1
	}
	return 0
}
