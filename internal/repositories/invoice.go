package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

const invoiceSelect = `
	SELECT i.id, i.customer_id, CONCAT(c.first_name, ' ', c.last_name), i.invoice_date,
	       i.base_amount, i.tax, i.grand_total, i.status, i.due_date,
	       COALESCE((SELECT SUM(p.amount_paid) FROM payment p WHERE p.invoice_id = i.id), 0),
	       (SELECT p.units_consumed FROM payment p WHERE p.invoice_id = i.id ORDER BY p.payment_date DESC, p.id DESC LIMIT 1)
	FROM invoice i
	JOIN customer c ON c.id = i.customer_id`

func scanInvoice(s rowScanner) (models.Invoice, error) {
	var (
		inv    models.Invoice
		status string
		due    sql.NullTime
	)
	err := s.Scan(&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceDate,
		&inv.BaseAmount, &inv.Tax, &inv.GrandTotal, &status, &due,
		&inv.AmountPaid, &inv.UnitsConsumed)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, billing.NotFound("invoice")
	}
	if err != nil {
		return inv, err
	}
	if inv.Status, err = billing.ParseStatus(status); err != nil {
		return inv, err
	}
	inv.DueDate = timePtr(due)
	inv.Outstanding = billing.Outstanding(inv.GrandTotal, inv.AmountPaid)
	return inv, nil
}

type InvoiceRepo struct {
	DB *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{DB: db}
}

// WithinIssueTx implements billing.IssueStore.
func (r *InvoiceRepo) WithinIssueTx(ctx context.Context, fn func(tx billing.IssueTx) error) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(&issueTx{tx: tx})
	})
}

func (r *InvoiceRepo) Get(ctx context.Context, invoiceID int64) (models.Invoice, error) {
	return scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.id = ?`, invoiceID))
}

// GetForCustomer treats an invoice owned by someone else as missing.
func (r *InvoiceRepo) GetForCustomer(ctx context.Context, customerID, invoiceID int64) (models.Invoice, error) {
	return scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.id = ? AND i.customer_id = ?`, invoiceID, customerID))
}

// ListByCustomer returns the newest invoices first; limit <= 0 means all.
func (r *InvoiceRepo) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.Invoice, error) {
	query := invoiceSelect + ` WHERE i.customer_id = ? ORDER BY i.invoice_date DESC, i.id DESC`
	args := []interface{}{customerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Owner returns the customer an invoice belongs to.
func (r *InvoiceRepo) Owner(ctx context.Context, invoiceID int64) (int64, error) {
	var customerID int64
	err := r.DB.QueryRowContext(ctx, `SELECT customer_id FROM invoice WHERE id = ?`, invoiceID).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, billing.NotFound("invoice")
	}
	return customerID, err
}

// OverdueSummary counts open invoices whose due date is before asOf.
func (r *InvoiceRepo) OverdueSummary(ctx context.Context, asOf time.Time) (models.OverdueSummary, error) {
	var s models.OverdueSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(i.grand_total - COALESCE(paid.total, 0)), 0)
		FROM invoice i
		LEFT JOIN (SELECT invoice_id, SUM(amount_paid) AS total FROM payment GROUP BY invoice_id) paid
		       ON paid.invoice_id = i.id
		WHERE i.status IN (?, ?) AND i.due_date IS NOT NULL AND i.due_date < ?`,
		billing.StatusPending, billing.StatusPartiallyPaid, asOf.Format(receiptDateLayout),
	).Scan(&s.Count, &s.Outstanding)
	if err != nil {
		return s, err
	}
	s.Outstanding = billing.Round2(s.Outstanding)
	return s, nil
}

type issueTx struct {
	tx *sql.Tx
}

func (t *issueTx) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customer WHERE id = ?)`, customerID).Scan(&exists)
	return exists, err
}

func (t *issueTx) InsertInvoice(ctx context.Context, d billing.InvoiceDraft) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO invoice (customer_id, invoice_date, base_amount, tax, grand_total, status, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.CustomerID, d.IssuedAt, d.Amounts.Base, d.Amounts.Tax, d.Amounts.GrandTotal,
		billing.StatusPending, d.DueDate.Format(receiptDateLayout),
	)
	if isForeignKeyConstraintError(err) {
		return 0, fmt.Errorf("%w: customer %d", billing.ErrReferentialIntegrity, d.CustomerID)
	}
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return res.LastInsertId()
}

func (t *issueTx) InvoiceOwner(ctx context.Context, invoiceID int64) (int64, error) {
	var customerID int64
	err := t.tx.QueryRowContext(ctx, `SELECT customer_id FROM invoice WHERE id = ?`, invoiceID).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, billing.NotFound("invoice")
	}
	return customerID, err
}

func (t *issueTx) SetInvoiceDueDate(ctx context.Context, invoiceID int64, due time.Time) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE invoice SET due_date = ? WHERE id = ?`, due.Format(receiptDateLayout), invoiceID)
	return err
}

func (t *issueTx) LatestBill(ctx context.Context, customerID int64) (int64, bool, error) {
	return t.latestID(ctx, `SELECT id FROM bill WHERE customer_id = ? ORDER BY issue_date DESC, id DESC LIMIT 1`, customerID)
}

func (t *issueTx) SetBillDueDate(ctx context.Context, billID int64, due time.Time) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE bill SET due_date = ? WHERE id = ?`, due.Format(receiptDateLayout), billID)
	return err
}

func (t *issueTx) FirstMeter(ctx context.Context, customerID int64) (int64, bool, error) {
	return t.latestID(ctx, `SELECT id FROM meter WHERE customer_id = ? ORDER BY id LIMIT 1`, customerID)
}

func (t *issueTx) InsertBill(ctx context.Context, b billing.LegacyBill) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO bill (customer_id, meter_id, issue_date, due_date, rate_per_unit)
		VALUES (?, ?, ?, ?, ?)`,
		b.CustomerID, b.MeterID, b.IssuedAt, b.DueDate.Format(receiptDateLayout), b.RatePerUnit,
	)
	if isForeignKeyConstraintError(err) {
		return 0, fmt.Errorf("%w: meter %d", billing.ErrReferentialIntegrity, b.MeterID)
	}
	if err != nil {
		return 0, fmt.Errorf("insert bill: %w", err)
	}
	return res.LastInsertId()
}

func (t *issueTx) latestID(ctx context.Context, query string, args ...interface{}) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
