package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
	"billingBack/internal/notify"
)

const dueDateLayout = "2006-01-02"

type InvoiceService struct {
	Invoices InvoiceStore
	Tariffs  *TariffService
	Payments PaymentStore
	Meters   MeterStore
	Bills    BillStore
	Notifier notify.Notifier
	ErrorLog Logger
	Now      func() time.Time
}

// IssueRequest asks for an invoice to be computed from a meter reading.
// InvoiceID selects an existing invoice unless CreateNew is set.
type IssueRequest struct {
	CustomerID    int64
	UnitsConsumed decimal.Decimal
	TariffID      int64
	InvoiceID     int64
	CreateNew     bool
	DueDate       string
}

type IssueResult struct {
	Invoice models.Invoice
	Tariff  models.Tariff
	Amounts billing.Amounts
	Created bool
}

func (s *InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var dueDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseDueDate accepts a calendar date or an ISO date-time and keeps only the
// date part.
func parseDueDate(raw string, loc *time.Location) (time.Time, bool) {
	if d, err := time.ParseInLocation(dueDateLayout, raw, loc); err == nil {
		return d, true
	}
	for _, layout := range dueDateTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// dueDate returns the parsed date, or issuedAt plus the default term when raw
// is empty or unreadable. given reports whether a usable date was supplied.
func (s *InvoiceService) dueDate(raw string, issuedAt time.Time) (due time.Time, given bool) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if d, ok := parseDueDate(raw, issuedAt.Location()); ok {
			return d, true
		}
		if s.ErrorLog != nil {
			s.ErrorLog.Printf("WARN: ignoring unreadable due date %q", raw)
		}
	}
	return issuedAt.AddDate(0, 0, billing.DefaultDueDays), false
}

// Issue computes the charges for a reading and stores them on a new or existing
// invoice. It never records a payment and never changes an invoice status.
func (s *InvoiceService) Issue(ctx context.Context, req IssueRequest) (IssueResult, error) {
	if req.CustomerID <= 0 {
		return IssueResult{}, billing.Invalid("customer id is required")
	}
	if req.TariffID <= 0 {
		return IssueResult{}, billing.Invalid("tariff id is required")
	}
	if !req.UnitsConsumed.IsPositive() {
		return IssueResult{}, billing.Invalid("units consumed must be a positive number")
	}

	issuedAt := s.now()
	due, dueGiven := s.dueDate(req.DueDate, issuedAt)

	tariff, err := s.Tariffs.Lookup(ctx, req.TariffID)
	if err != nil {
		return IssueResult{}, err
	}
	amounts, err := billing.Calculate(req.UnitsConsumed, tariff.RatePerUnit)
	if err != nil {
		return IssueResult{}, err
	}

	var (
		invoiceID int64
		created   = req.CreateNew || req.InvoiceID == 0
	)
	err = s.Invoices.WithinIssueTx(ctx, func(tx billing.IssueTx) error {
		if created {
			ok, err := tx.CustomerExists(ctx, req.CustomerID)
			if err != nil {
				return err
			}
			if !ok {
				return billing.NotFound("customer")
			}
			invoiceID, err = tx.InsertInvoice(ctx, billing.InvoiceDraft{
				CustomerID: req.CustomerID,
				IssuedAt:   issuedAt,
				Amounts:    amounts,
				DueDate:    due,
			})
			if err != nil {
				return err
			}
		} else {
			invoiceID = req.InvoiceID
			if err := checkOwner(ctx, tx, invoiceID, req.CustomerID); err != nil {
				return err
			}
			if dueGiven {
				if err := tx.SetInvoiceDueDate(ctx, invoiceID, due); err != nil {
					return err
				}
			}
		}

		if err := checkOwner(ctx, tx, invoiceID, req.CustomerID); err != nil {
			return err
		}
		return upkeepBill(ctx, tx, req.CustomerID, due, dueGiven, issuedAt, tariff)
	})
	if err != nil {
		return IssueResult{}, err
	}

	inv, err := s.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return IssueResult{}, fmt.Errorf("reload invoice %d: %w", invoiceID, err)
	}

	if created && s.Notifier != nil {
		if err := s.Notifier.InvoiceIssued(ctx, inv.CustomerID, inv.ID, billing.Round2(inv.GrandTotal).StringFixed(2)); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("notify invoice %d: %v", inv.ID, err)
		}
	}
	return IssueResult{Invoice: inv, Tariff: tariff, Amounts: amounts, Created: created}, nil
}

func checkOwner(ctx context.Context, tx billing.IssueTx, invoiceID, customerID int64) error {
	owner, err := tx.InvoiceOwner(ctx, invoiceID)
	if err != nil {
		return err
	}
	if owner != customerID {
		return fmt.Errorf("%w: invoice %d does not belong to customer %d", billing.ErrReferentialIntegrity, invoiceID, customerID)
	}
	return nil
}

// upkeepBill keeps the legacy bill row in step with the latest invoice. Its
// paid flag is derived on read, so only dates and the rate are written.
func upkeepBill(ctx context.Context, tx billing.IssueTx, customerID int64, due time.Time, dueGiven bool, issuedAt time.Time, tariff models.Tariff) error {
	billID, ok, err := tx.LatestBill(ctx, customerID)
	if err != nil {
		return err
	}
	if ok {
		if !dueGiven {
			return nil
		}
		return tx.SetBillDueDate(ctx, billID, due)
	}

	meterID, ok, err := tx.FirstMeter(ctx, customerID)
	if err != nil || !ok {
		return err
	}
	_, err = tx.InsertBill(ctx, billing.LegacyBill{
		CustomerID:  customerID,
		MeterID:     meterID,
		IssuedAt:    issuedAt,
		DueDate:     due,
		RatePerUnit: tariff.RatePerUnit,
	})
	return err
}

func (s *InvoiceService) ListForCustomer(ctx context.Context, customerID int64) ([]models.Invoice, error) {
	return s.Invoices.ListByCustomer(ctx, customerID, 0)
}

// DetailForCustomer hides invoices that belong to someone else.
func (s *InvoiceService) DetailForCustomer(ctx context.Context, customerID, invoiceID int64) (models.InvoiceDetail, error) {
	inv, err := s.Invoices.GetForCustomer(ctx, customerID, invoiceID)
	if err != nil {
		return models.InvoiceDetail{}, err
	}
	payments, err := s.Payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return models.InvoiceDetail{}, err
	}
	meters, err := s.Meters.ListByCustomer(ctx, customerID)
	if err != nil {
		return models.InvoiceDetail{}, err
	}

	detail := models.InvoiceDetail{Invoice: inv, Payments: payments}
	if len(meters) > 0 {
		detail.MeterInfo = &meters[0]
	}
	return detail, nil
}

func (s *InvoiceService) Overdue(ctx context.Context) (models.OverdueSummary, error) {
	return s.Invoices.OverdueSummary(ctx, s.now())
}

// ListBills lists the legacy bills with their paid flag derived from open invoices.
func (s *InvoiceService) ListBills(ctx context.Context, customerID int64) ([]models.Bill, error) {
	return s.Bills.ListForCustomer(ctx, customerID)
}
