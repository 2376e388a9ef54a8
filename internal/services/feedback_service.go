package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

const maxFeedbackLen = 500

type FeedbackService struct {
	Repo     FeedbackStore
	Invoices InvoiceStore
	Now      func() time.Time
}

func (s *FeedbackService) Submit(ctx context.Context, customerID int64, req models.FeedbackRequest) (models.Feedback, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.Feedback{}, billing.Invalid("feedback text is required")
	}
	if utf8.RuneCountInString(text) > maxFeedbackLen {
		return models.Feedback{}, billing.Invalid("feedback text must be at most %d characters", maxFeedbackLen)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return models.Feedback{}, billing.Invalid("rating must be between 1 and 5")
	}
	if req.InvoiceID < 0 {
		return models.Feedback{}, billing.Invalid("invalid invoiceId")
	}
	if req.InvoiceID > 0 {
		owner, err := s.Invoices.Owner(ctx, req.InvoiceID.Int64())
		if err != nil {
			return models.Feedback{}, err
		}
		if owner != customerID {
			return models.Feedback{}, billing.ErrForbidden
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	f := models.Feedback{
		CustomerID: customerID,
		InvoiceID:  req.InvoiceID.Ptr(),
		Text:       text,
		Rating:     rating(req.Rating),
		CreatedAt:  now(),
	}
	id, err := s.Repo.Create(ctx, f)
	if err != nil {
		return models.Feedback{}, err
	}
	f.ID = id
	return f, nil
}

func (s *FeedbackService) ListForCustomer(ctx context.Context, customerID int64) ([]models.Feedback, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

func (s *FeedbackService) ListAll(ctx context.Context) ([]models.Feedback, error) {
	return s.Repo.ListAll(ctx)
}

func rating(v models.FlexInt64) *int {
	if v == 0 {
		return nil
	}
	r := int(v)
	return &r
}
