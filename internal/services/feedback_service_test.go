package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type stubFeedback struct{ stored []models.Feedback }

func (s *stubFeedback) Create(ctx context.Context, f models.Feedback) (int64, error) {
	s.stored = append(s.stored, f)
	return int64(len(s.stored)), nil
}

func (s *stubFeedback) ListByCustomer(ctx context.Context, customerID int64) ([]models.Feedback, error) {
	return s.stored, nil
}

func (s *stubFeedback) ListAll(ctx context.Context) ([]models.Feedback, error) { return s.stored, nil }

func TestSubmitFeedback(t *testing.T) {
	tx := newIssueTx()
	tx.owners[10] = 7
	tx.owners[11] = 8

	tests := []struct {
		name string
		req  models.FeedbackRequest
		want error
	}{
		{"ok", models.FeedbackRequest{Text: "  great service ", Rating: 5, InvoiceID: 10}, nil},
		{"no invoice", models.FeedbackRequest{Text: "meter reading late"}, nil},
		{"blank text", models.FeedbackRequest{Text: "   "}, billing.ErrInvalidInput},
		{"too long", models.FeedbackRequest{Text: strings.Repeat("a", 501)}, billing.ErrInvalidInput},
		{"rating too high", models.FeedbackRequest{Text: "ok", Rating: 6}, billing.ErrInvalidInput},
		{"rating zero means none", models.FeedbackRequest{Text: "ok", Rating: 0}, nil},
		{"rating negative", models.FeedbackRequest{Text: "ok", Rating: -1}, billing.ErrInvalidInput},
		{"negative invoice", models.FeedbackRequest{Text: "ok", InvoiceID: -3}, billing.ErrInvalidInput},
		{"foreign invoice", models.FeedbackRequest{Text: "ok", InvoiceID: 11}, billing.ErrForbidden},
		{"missing invoice", models.FeedbackRequest{Text: "ok", InvoiceID: 12}, billing.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubFeedback{}
			svc := &FeedbackService{Repo: repo, Invoices: &stubInvoices{tx: tx}, Now: fixedClock}

			f, err := svc.Submit(context.Background(), 7, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.want != nil {
				if len(repo.stored) != 0 {
					t.Error("rejected feedback stored")
				}
				return
			}
			if f.ID != 1 || f.Text != strings.TrimSpace(tt.req.Text) || !f.CreatedAt.Equal(testNow) {
				t.Errorf("feedback = %+v", f)
			}
			if (f.InvoiceID == nil) != (tt.req.InvoiceID == 0) || (f.Rating == nil) != (tt.req.Rating == 0) {
				t.Errorf("unset fields must be stored as NULL: %+v", f)
			}
		})
	}
}
