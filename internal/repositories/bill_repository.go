package repositories

import (
	"context"
	"database/sql"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type BillRepository struct {
	DB *sql.DB
}

// ListForCustomer returns the legacy bills of a customer. A bill reads as paid
// once the customer has no open invoice; nothing is stored for it.
func (r *BillRepository) ListForCustomer(ctx context.Context, customerID int64) ([]models.Bill, error) {
	var open int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoice WHERE customer_id = ? AND status IN (?, ?)`,
		customerID, billing.StatusPending, billing.StatusPartiallyPaid,
	).Scan(&open)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT b.id, b.customer_id, b.meter_id, b.issue_date, b.due_date, b.rate_per_unit, li.id, li.grand_total
		FROM bill b
		LEFT JOIN invoice li ON li.id = (SELECT MAX(id) FROM invoice WHERE customer_id = b.customer_id)
		WHERE b.customer_id = ?
		ORDER BY b.issue_date DESC, b.id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var (
			b     models.Bill
			due   sql.NullTime
			invID sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.MeterID, &b.IssueDate, &due, &b.RatePerUnit, &invID, &b.LatestInvoiceTotal); err != nil {
			return nil, err
		}
		b.DueDate = timePtr(due)
		if invID.Valid {
			id := invID.Int64
			b.LatestInvoiceID = &id
		}
		b.Paid = billing.BillPaid(open)
		b.Status = billing.LegacyBillFlag(open)
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
