package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

var testNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type stubTariffs map[int64]models.Tariff

func (s stubTariffs) GetByID(ctx context.Context, id int64) (models.Tariff, error) {
	t, ok := s[id]
	if !ok {
		return models.Tariff{}, billing.NotFound("tariff")
	}
	return t, nil
}

func (s stubTariffs) List(ctx context.Context) ([]models.Tariff, error) {
	out := []models.Tariff{}
	for _, t := range s {
		out = append(out, t)
	}
	return out, nil
}

// issueTx records every write so tests can assert what issuance touched.
type issueTx struct {
	customers map[int64]bool
	owners    map[int64]int64
	drafts    map[int64]billing.InvoiceDraft
	bills     map[int64]int64
	meters    map[int64]int64
	nextID    int64

	invoiceDue map[int64]time.Time
	billDue    map[int64]time.Time
	newBills   []billing.LegacyBill
	writes     []string
}

func newIssueTx() *issueTx {
	return &issueTx{
		customers:  map[int64]bool{},
		owners:     map[int64]int64{},
		drafts:     map[int64]billing.InvoiceDraft{},
		bills:      map[int64]int64{},
		meters:     map[int64]int64{},
		invoiceDue: map[int64]time.Time{},
		billDue:    map[int64]time.Time{},
		nextID:     100,
	}
}

func (t *issueTx) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return t.customers[id], nil
}

func (t *issueTx) InsertInvoice(ctx context.Context, d billing.InvoiceDraft) (int64, error) {
	t.nextID++
	t.owners[t.nextID] = d.CustomerID
	t.drafts[t.nextID] = d
	t.writes = append(t.writes, "insert invoice")
	return t.nextID, nil
}

func (t *issueTx) InvoiceOwner(ctx context.Context, id int64) (int64, error) {
	owner, ok := t.owners[id]
	if !ok {
		return 0, billing.NotFound("invoice")
	}
	return owner, nil
}

func (t *issueTx) SetInvoiceDueDate(ctx context.Context, id int64, due time.Time) error {
	t.invoiceDue[id] = due
	t.writes = append(t.writes, "update invoice due date")
	return nil
}

func (t *issueTx) LatestBill(ctx context.Context, customerID int64) (int64, bool, error) {
	id, ok := t.bills[customerID]
	return id, ok, nil
}

func (t *issueTx) SetBillDueDate(ctx context.Context, billID int64, due time.Time) error {
	t.billDue[billID] = due
	t.writes = append(t.writes, "update bill due date")
	return nil
}

func (t *issueTx) FirstMeter(ctx context.Context, customerID int64) (int64, bool, error) {
	id, ok := t.meters[customerID]
	return id, ok, nil
}

func (t *issueTx) InsertBill(ctx context.Context, b billing.LegacyBill) (int64, error) {
	t.newBills = append(t.newBills, b)
	t.writes = append(t.writes, "insert bill")
	return int64(len(t.newBills)), nil
}

type stubInvoices struct {
	tx       *issueTx
	invoices map[int64]models.Invoice
}

func (s *stubInvoices) WithinIssueTx(ctx context.Context, fn func(tx billing.IssueTx) error) error {
	return fn(s.tx)
}

func (s *stubInvoices) Get(ctx context.Context, id int64) (models.Invoice, error) {
	if inv, ok := s.invoices[id]; ok {
		return inv, nil
	}
	d, ok := s.tx.drafts[id]
	if !ok {
		return models.Invoice{}, billing.NotFound("invoice")
	}
	return models.Invoice{
		ID:          id,
		CustomerID:  d.CustomerID,
		InvoiceDate: d.IssuedAt,
		BaseAmount:  d.Amounts.Base,
		Tax:         d.Amounts.Tax,
		GrandTotal:  d.Amounts.GrandTotal,
		Status:      billing.StatusPending,
		DueDate:     &d.DueDate,
		AmountPaid:  decimal.Zero,
		Outstanding: billing.Outstanding(d.Amounts.GrandTotal, decimal.Zero),
	}, nil
}

func (s *stubInvoices) GetForCustomer(ctx context.Context, customerID, id int64) (models.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil || inv.CustomerID != customerID {
		return models.Invoice{}, billing.NotFound("invoice")
	}
	return inv, nil
}

func (s *stubInvoices) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Invoice, error) {
	out := []models.Invoice{}
	for _, inv := range s.invoices {
		if inv.CustomerID == customerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *stubInvoices) Owner(ctx context.Context, id int64) (int64, error) {
	return s.tx.InvoiceOwner(ctx, id)
}

func (s *stubInvoices) OverdueSummary(ctx context.Context, asOf time.Time) (models.OverdueSummary, error) {
	return models.OverdueSummary{Count: 2, Outstanding: decimal.RequireFromString("150.50")}, nil
}

type stubMeters struct {
	byCustomer map[int64][]models.Meter
	created    []models.Meter
}

func (s *stubMeters) Create(ctx context.Context, m models.Meter) (int64, error) {
	s.created = append(s.created, m)
	return int64(len(s.created)), nil
}

func (s *stubMeters) GetByID(ctx context.Context, id int64) (models.Meter, error) {
	for _, ms := range s.byCustomer {
		for _, m := range ms {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return models.Meter{}, billing.NotFound("meter")
}

func (s *stubMeters) ListByCustomer(ctx context.Context, customerID int64) ([]models.Meter, error) {
	return s.byCustomer[customerID], nil
}

type stubPayments struct {
	byInvoice map[int64][]models.PaymentSummary
}

func (s *stubPayments) List(ctx context.Context, f models.PaymentFilter) ([]models.PaymentListItem, error) {
	return nil, nil
}

func (s *stubPayments) Stats(ctx context.Context) (models.PaymentStats, error) {
	return models.PaymentStats{}, nil
}

func (s *stubPayments) Detail(ctx context.Context, id int64) (models.PaymentDetail, error) {
	return models.PaymentDetail{}, billing.NotFound("payment")
}

func (s *stubPayments) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.PaymentSummary, error) {
	return s.byInvoice[invoiceID], nil
}

func (s *stubPayments) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.PaymentSummary, error) {
	return []models.PaymentSummary{}, nil
}

type recordingLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLog) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}
