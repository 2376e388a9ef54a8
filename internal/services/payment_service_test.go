package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/locks"
)

// oneInvoiceStore is a non-transactional ledger store holding a single invoice.
type oneInvoiceStore struct {
	inv      billing.InvoiceState
	payments []billing.Payment
}

func (s *oneInvoiceStore) WithinTx(ctx context.Context, fn func(tx billing.LedgerTx) error) error {
	return fn(s)
}

func (s *oneInvoiceStore) LockInvoice(ctx context.Context, id int64) (billing.InvoiceState, error) {
	if id != s.inv.ID {
		return billing.InvoiceState{}, billing.NotFound("invoice")
	}
	return s.inv, nil
}

func (s *oneInvoiceStore) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	for _, p := range s.payments {
		if p.TransactionRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (s *oneInvoiceStore) InsertPayment(ctx context.Context, p billing.Payment) (int64, error) {
	s.payments = append(s.payments, p)
	s.inv.TotalPaid = s.inv.TotalPaid.Add(p.Amount)
	return int64(len(s.payments)), nil
}

func (s *oneInvoiceStore) UpdateInvoiceStatus(ctx context.Context, id int64, from, to billing.Status) error {
	s.inv.Status = to
	return nil
}

func (s *oneInvoiceStore) Receipt(ctx context.Context, paymentID int64) (billing.Receipt, error) {
	p := s.payments[paymentID-1]
	return billing.Receipt{
		PaymentID:      paymentID,
		InvoiceID:      p.InvoiceID,
		CustomerID:     s.inv.CustomerID,
		AmountPaid:     p.Amount,
		TransactionRef: p.TransactionRef,
		InvoiceStatus:  s.inv.Status,
	}, nil
}

type recordingEvents struct{ receipts []billing.Receipt }

func (r *recordingEvents) PaymentRecorded(rc billing.Receipt) { r.receipts = append(r.receipts, rc) }

type failingNotifier struct{ calls int }

func (f *failingNotifier) InvoiceIssued(context.Context, int64, int64, string) error { return nil }
func (f *failingNotifier) PaymentReceived(context.Context, billing.Receipt) error {
	f.calls++
	return errors.New("fcm down")
}

type recordingArchive struct{ keys []string }

func (a *recordingArchive) Put(ctx context.Context, r billing.Receipt) (string, error) {
	a.keys = append(a.keys, r.TransactionRef)
	return r.TransactionRef, nil
}

func newPaymentService(store *oneInvoiceStore) (*PaymentService, *recordingEvents, *failingNotifier, *recordingArchive, *recordingLog) {
	events, notifier, archive, errLog := &recordingEvents{}, &failingNotifier{}, &recordingArchive{}, &recordingLog{}
	return &PaymentService{
		Ledger:   billing.NewLedger(store, locks.NewKeyedMutex()).WithClock(fixedClock),
		Repo:     &stubPayments{},
		Events:   events,
		Notifier: notifier,
		Archive:  archive,
		ErrorLog: errLog,
	}, events, notifier, archive, errLog
}

func TestPayFansOutAfterCommit(t *testing.T) {
	store := &oneInvoiceStore{inv: billing.InvoiceState{
		ID: 1, CustomerID: 7, GrandTotal: decimal.NewFromInt(1000), Status: billing.StatusPending,
	}}
	svc, events, notifier, archive, errLog := newPaymentService(store)

	res, err := svc.Pay(context.Background(), billing.PaymentRequest{
		InvoiceID: 1, CustomerID: 7, Amount: decimal.NewFromInt(600), TransactionRef: "TXN-1",
	})
	if err != nil {
		t.Fatalf("notification failure must not fail the payment: %v", err)
	}
	if res.Invoice.Status != billing.StatusPartiallyPaid {
		t.Errorf("status = %s", res.Invoice.Status)
	}
	if len(events.receipts) != 1 || events.receipts[0].PaymentID != res.Payment.ID {
		t.Errorf("events = %+v", events.receipts)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d", notifier.calls)
	}
	if len(archive.keys) != 1 || archive.keys[0] != "TXN-1" {
		t.Errorf("archive = %v", archive.keys)
	}
	if len(errLog.lines) != 1 {
		t.Errorf("expected the notifier failure to be logged, got %v", errLog.lines)
	}
}

func TestPayRejectedPaymentHasNoSideEffects(t *testing.T) {
	store := &oneInvoiceStore{inv: billing.InvoiceState{
		ID: 1, CustomerID: 7, GrandTotal: decimal.NewFromInt(100), Status: billing.StatusPending,
	}}
	svc, events, notifier, archive, _ := newPaymentService(store)

	_, err := svc.Pay(context.Background(), billing.PaymentRequest{
		InvoiceID: 1, Amount: decimal.NewFromInt(150), TransactionRef: "TXN-2",
	})
	if !errors.Is(err, billing.ErrAmountExceedsOutstanding) {
		t.Fatalf("err = %v", err)
	}
	if len(events.receipts) != 0 || notifier.calls != 0 || len(archive.keys) != 0 {
		t.Error("rejected payment triggered fan-out")
	}
	if len(store.payments) != 0 {
		t.Error("rejected payment stored")
	}
}
