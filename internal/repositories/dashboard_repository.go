package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

// DashboardRepository runs the aggregate queries behind both dashboards.
// Each method is a single statement so callers can run them concurrently.
type DashboardRepository struct {
	DB *sql.DB
}

func (r *DashboardRepository) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer`).Scan(&n)
	return n, err
}

func (r *DashboardRepository) InvoiceCounts(ctx context.Context) (models.InvoiceCounts, error) {
	var c models.InvoiceCounts
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(status = ?), 0),
		       COALESCE(SUM(status IN (?, ?)), 0)
		FROM invoice`,
		billing.StatusPaid, billing.StatusPending, billing.StatusPartiallyPaid,
	).Scan(&c.Total, &c.Paid, &c.Pending)
	return c, err
}

func (r *DashboardRepository) TotalReceived(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB.QueryRowContext(ctx, `SELECT SUM(amount_paid) FROM payment`).Scan(&total)
	return zeroIfNull(total), err
}

// MonthlyReceived sums payments per calendar month starting at since.
func (r *DashboardRepository) MonthlyReceived(ctx context.Context, since time.Time) ([]models.MonthlyTotal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DATE_FORMAT(payment_date, '%Y-%m') AS month, SUM(amount_paid)
		FROM payment
		WHERE payment_date >= ?
		GROUP BY month
		ORDER BY month`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MonthlyTotal{}
	for rows.Next() {
		var m models.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Amount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CustomerOutstanding sums what is still owed on the customer's open invoices
// and returns the earliest due date among them.
func (r *DashboardRepository) CustomerOutstanding(ctx context.Context, customerID int64) (decimal.Decimal, *time.Time, error) {
	var (
		total decimal.NullDecimal
		next  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT SUM(GREATEST(i.grand_total - COALESCE(paid.total, 0), 0)), MIN(i.due_date)
		FROM invoice i
		LEFT JOIN (SELECT invoice_id, SUM(amount_paid) AS total FROM payment GROUP BY invoice_id) paid
		       ON paid.invoice_id = i.id
		WHERE i.customer_id = ? AND i.status IN (?, ?)`,
		customerID, billing.StatusPending, billing.StatusPartiallyPaid,
	).Scan(&total, &next)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return billing.Round2(zeroIfNull(total)), timePtr(next), nil
}

func (r *DashboardRepository) CustomerPaidSince(ctx context.Context, customerID int64, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB.QueryRowContext(ctx, `
		SELECT SUM(p.amount_paid)
		FROM payment p JOIN invoice i ON i.id = p.invoice_id
		WHERE i.customer_id = ? AND p.payment_date >= ?`,
		customerID, since,
	).Scan(&total)
	return zeroIfNull(total), err
}
