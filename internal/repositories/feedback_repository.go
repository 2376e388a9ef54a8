package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type FeedbackRepository struct {
	DB *sql.DB
}

func (r *FeedbackRepository) Create(ctx context.Context, f models.Feedback) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO feedback (customer_id, invoice_id, feedback_text, rating, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.CustomerID, f.InvoiceID, f.Text, f.Rating, f.CreatedAt,
	)
	if isForeignKeyConstraintError(err) {
		return 0, fmt.Errorf("%w: feedback must reference an existing customer and invoice", billing.ErrReferentialIntegrity)
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const feedbackSelect = `
	SELECT f.id, f.customer_id, CONCAT(c.first_name, ' ', c.last_name), c.email,
	       f.invoice_id, i.invoice_date, i.grand_total, i.status,
	       f.feedback_text, f.rating, f.created_at
	FROM feedback f
	JOIN customer c ON c.id = f.customer_id
	LEFT JOIN invoice i ON i.id = f.invoice_id`

func (r *FeedbackRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Feedback, error) {
	return r.list(ctx, feedbackSelect+` WHERE f.customer_id = ? ORDER BY f.created_at DESC`, customerID)
}

func (r *FeedbackRepository) ListAll(ctx context.Context) ([]models.Feedback, error) {
	return r.list(ctx, feedbackSelect+` ORDER BY f.created_at DESC`)
}

func (r *FeedbackRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Feedback, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Feedback{}
	for rows.Next() {
		var (
			f             models.Feedback
			email, status sql.NullString
			invoiceID     sql.NullInt64
			invoiceDate   sql.NullTime
			rating        sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &f.CustomerID, &f.CustomerName, &email, &invoiceID, &invoiceDate,
			&f.InvoiceTotal, &status, &f.Text, &rating, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.CustomerEmail = email.String
		f.InvoiceStatus = status.String
		f.InvoiceDate = timePtr(invoiceDate)
		if invoiceID.Valid {
			id := invoiceID.Int64
			f.InvoiceID = &id
		}
		if rating.Valid {
			v := int(rating.Int64)
			f.Rating = &v
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
