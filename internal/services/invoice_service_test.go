package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

func newInvoiceService(tx *issueTx) (*InvoiceService, *stubInvoices) {
	invoices := &stubInvoices{tx: tx, invoices: map[int64]models.Invoice{}}
	return &InvoiceService{
		Invoices: invoices,
		Tariffs: &TariffService{Repo: stubTariffs{
			1: {ID: 1, Description: "Domestic", RatePerUnit: decimal.RequireFromString("6.75")},
		}},
		Payments: &stubPayments{},
		Meters:   &stubMeters{},
		Now:      fixedClock,
	}, invoices
}

func TestIssueCreatesPendingInvoiceWithoutPayment(t *testing.T) {
	tx := newIssueTx()
	tx.customers[7] = true
	tx.meters[7] = 3
	svc, _ := newInvoiceService(tx)

	res, err := svc.Issue(context.Background(), IssueRequest{
		CustomerID:    7,
		UnitsConsumed: decimal.RequireFromString("123.45"),
		TariffID:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Created {
		t.Error("expected a new invoice")
	}
	if res.Invoice.Status != billing.StatusPending {
		t.Errorf("status = %s, want Pending", res.Invoice.Status)
	}
	if !res.Invoice.AmountPaid.IsZero() {
		t.Errorf("amount paid = %s, want 0", res.Invoice.AmountPaid)
	}
	if !res.Amounts.GrandTotal.Equal(decimal.RequireFromString("874.951875")) {
		t.Errorf("grand total = %s", res.Amounts.GrandTotal)
	}

	want := []string{"insert invoice", "insert bill"}
	if len(tx.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", tx.writes, want)
	}
	for i := range want {
		if tx.writes[i] != want[i] {
			t.Errorf("write %d = %q, want %q", i, tx.writes[i], want[i])
		}
	}

	due := tx.drafts[res.Invoice.ID].DueDate
	if !due.Equal(testNow.AddDate(0, 0, 20)) {
		t.Errorf("due date = %v, want issue date + 20 days", due)
	}
	if !tx.newBills[0].RatePerUnit.Equal(decimal.RequireFromString("6.75")) {
		t.Errorf("bill rate = %s", tx.newBills[0].RatePerUnit)
	}
}

func TestIssueExistingInvoiceOnlyMovesDueDate(t *testing.T) {
	tx := newIssueTx()
	tx.customers[7] = true
	tx.owners[55] = 7
	tx.bills[7] = 9
	svc, invoices := newInvoiceService(tx)
	invoices.invoices[55] = models.Invoice{ID: 55, CustomerID: 7, Status: billing.StatusPartiallyPaid}

	res, err := svc.Issue(context.Background(), IssueRequest{
		CustomerID:    7,
		UnitsConsumed: decimal.NewFromInt(10),
		TariffID:      1,
		InvoiceID:     55,
		DueDate:       "2024-06-30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Created {
		t.Error("existing invoice reported as created")
	}
	if res.Invoice.Status != billing.StatusPartiallyPaid {
		t.Errorf("status changed to %s", res.Invoice.Status)
	}
	want := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	if !tx.invoiceDue[55].Equal(want) || !tx.billDue[9].Equal(want) {
		t.Errorf("due dates = %v / %v", tx.invoiceDue[55], tx.billDue[9])
	}
	for _, w := range tx.writes {
		if w == "insert invoice" || w == "insert bill" {
			t.Errorf("unexpected write %q", w)
		}
	}
}

func TestIssueErrors(t *testing.T) {
	tests := []struct {
		name string
		req  IssueRequest
		want error
	}{
		{"missing customer id", IssueRequest{UnitsConsumed: decimal.NewFromInt(1), TariffID: 1}, billing.ErrInvalidInput},
		{"zero units", IssueRequest{CustomerID: 7, TariffID: 1}, billing.ErrInvalidInput},
		{"negative units", IssueRequest{CustomerID: 7, UnitsConsumed: decimal.NewFromInt(-5), TariffID: 1}, billing.ErrInvalidInput},
		{"unknown tariff", IssueRequest{CustomerID: 7, UnitsConsumed: decimal.NewFromInt(1), TariffID: 99}, billing.ErrNotFound},
		{"unknown customer", IssueRequest{CustomerID: 8, UnitsConsumed: decimal.NewFromInt(1), TariffID: 1}, billing.ErrNotFound},
		{"unknown invoice", IssueRequest{CustomerID: 7, UnitsConsumed: decimal.NewFromInt(1), TariffID: 1, InvoiceID: 404}, billing.ErrNotFound},
		{"foreign invoice", IssueRequest{CustomerID: 7, UnitsConsumed: decimal.NewFromInt(1), TariffID: 1, InvoiceID: 60}, billing.ErrReferentialIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newIssueTx()
			tx.customers[7] = true
			tx.owners[60] = 8
			svc, _ := newInvoiceService(tx)

			_, err := svc.Issue(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(tx.newBills) != 0 || len(tx.drafts) != 0 {
				t.Error("failed issuance wrote rows")
			}
		})
	}
}

func TestParseDueDate(t *testing.T) {
	june30 := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-06-30", june30, true},
		{"2024-06-30T00:00:00Z", june30, true},
		{"2024-06-30T18:45:00.000Z", june30, true},
		{"2024-06-30T18:45:00+05:30", june30, true},
		{"2024-06-30T18:45:00", june30, true},
		{"2024-06-30 18:45:00", june30, true},
		{"30/06/2024", time.Time{}, false},
		{"soon", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parseDueDate(tt.raw, time.UTC)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseDueDate(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIssueUnreadableDueDateFallsBack(t *testing.T) {
	t.Run("new invoice", func(t *testing.T) {
		tx := newIssueTx()
		tx.customers[7] = true
		svc, _ := newInvoiceService(tx)
		log := &recordingLog{}
		svc.ErrorLog = log

		res, err := svc.Issue(context.Background(), IssueRequest{
			CustomerID:    7,
			UnitsConsumed: decimal.NewFromInt(1),
			TariffID:      1,
			DueDate:       "30/06/2024",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if due := tx.drafts[res.Invoice.ID].DueDate; !due.Equal(testNow.AddDate(0, 0, 20)) {
			t.Errorf("due date = %v, want issue date + 20 days", due)
		}
		if len(log.lines) != 1 {
			t.Errorf("warnings = %v, want one", log.lines)
		}
	})

	t.Run("existing invoice", func(t *testing.T) {
		tx := newIssueTx()
		tx.customers[7] = true
		tx.owners[55] = 7
		tx.bills[7] = 9
		svc, invoices := newInvoiceService(tx)
		svc.ErrorLog = &recordingLog{}
		invoices.invoices[55] = models.Invoice{ID: 55, CustomerID: 7, Status: billing.StatusPending}

		if _, err := svc.Issue(context.Background(), IssueRequest{
			CustomerID:    7,
			UnitsConsumed: decimal.NewFromInt(1),
			TariffID:      1,
			InvoiceID:     55,
			DueDate:       "next week",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, moved := tx.invoiceDue[55]; moved {
			t.Errorf("invoice due date moved to %v", tx.invoiceDue[55])
		}
		if _, moved := tx.billDue[9]; moved {
			t.Errorf("bill due date moved to %v", tx.billDue[9])
		}
	})
}

func TestDetailForCustomerHidesForeignInvoice(t *testing.T) {
	tx := newIssueTx()
	svc, invoices := newInvoiceService(tx)
	invoices.invoices[5] = models.Invoice{ID: 5, CustomerID: 1}

	if _, err := svc.DetailForCustomer(context.Background(), 2, 5); !errors.Is(err, billing.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	svc.Meters = &stubMeters{byCustomer: map[int64][]models.Meter{1: {{ID: 3, CustomerID: 1}}}}
	svc.Payments = &stubPayments{byInvoice: map[int64][]models.PaymentSummary{5: {{ID: 1, InvoiceID: 5}}}}
	detail, err := svc.DetailForCustomer(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.MeterInfo == nil || detail.MeterInfo.ID != 3 || len(detail.Payments) != 1 {
		t.Errorf("detail = %+v", detail)
	}
}
