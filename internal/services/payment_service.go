package services

import (
	"context"
	"time"

	"billingBack/internal/billing"
	"billingBack/internal/models"
	"billingBack/internal/notify"
)

const afterPaymentTimeout = 10 * time.Second

type PaymentService struct {
	Ledger   *billing.Ledger
	Repo     PaymentStore
	Events   PaymentEvents
	Notifier notify.Notifier
	Archive  ReceiptArchive
	ErrorLog Logger
}

// Pay records the payment. Fan-out to the live feed, push notifications and the
// receipt archive happens after commit and never fails the payment.
func (s *PaymentService) Pay(ctx context.Context, req billing.PaymentRequest) (billing.PaymentResult, error) {
	res, err := s.Ledger.RecordPayment(ctx, req)
	if err != nil {
		return billing.PaymentResult{}, err
	}
	s.afterPayment(ctx, res.Receipt)
	return res, nil
}

func (s *PaymentService) afterPayment(ctx context.Context, r billing.Receipt) {
	if s.Events != nil {
		s.Events.PaymentRecorded(r)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterPaymentTimeout)
	defer cancel()

	if s.Notifier != nil {
		if err := s.Notifier.PaymentReceived(ctx, r); err != nil {
			s.logf("notify payment %d: %v", r.PaymentID, err)
		}
	}
	if s.Archive != nil {
		if _, err := s.Archive.Put(ctx, r); err != nil {
			s.logf("archive receipt %d: %v", r.PaymentID, err)
		}
	}
}

func (s *PaymentService) logf(format string, v ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, v...)
	}
}

func (s *PaymentService) List(ctx context.Context, f models.PaymentFilter) ([]models.PaymentListItem, error) {
	items, err := s.Repo.List(ctx, f)
	if items == nil {
		items = []models.PaymentListItem{}
	}
	return items, err
}

func (s *PaymentService) Stats(ctx context.Context) (models.PaymentStats, error) {
	return s.Repo.Stats(ctx)
}

func (s *PaymentService) Detail(ctx context.Context, paymentID int64) (models.PaymentDetail, error) {
	return s.Repo.Detail(ctx, paymentID)
}
