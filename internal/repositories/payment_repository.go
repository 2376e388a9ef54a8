package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

const receiptDateLayout = "2006-01-02"

// PaymentRepository is the MySQL-backed ledger store.
type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// WithinTx implements billing.LedgerStore.
func (r *PaymentRepository) WithinTx(ctx context.Context, fn func(tx billing.LedgerTx) error) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(&ledgerTx{tx: tx})
	})
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) LockInvoice(ctx context.Context, invoiceID int64) (billing.InvoiceState, error) {
	var (
		st     billing.InvoiceState
		status string
	)
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, customer_id, grand_total, status FROM invoice WHERE id = ? FOR UPDATE`, invoiceID,
	).Scan(&st.ID, &st.CustomerID, &st.GrandTotal, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return billing.InvoiceState{}, billing.NotFound("invoice")
	}
	if err != nil {
		return billing.InvoiceState{}, fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}
	if st.Status, err = billing.ParseStatus(status); err != nil {
		return billing.InvoiceState{}, fmt.Errorf("invoice %d: %w", invoiceID, err)
	}

	err = t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_paid), 0) FROM payment WHERE invoice_id = ?`, invoiceID,
	).Scan(&st.TotalPaid)
	if err != nil {
		return billing.InvoiceState{}, fmt.Errorf("sum payments for invoice %d: %w", invoiceID, err)
	}
	return st, nil
}

func (t *ledgerTx) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM payment WHERE transaction_ref = ?)`, ref,
	).Scan(&exists)
	return exists, err
}

func (t *ledgerTx) InsertPayment(ctx context.Context, p billing.Payment) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO payment (invoice_id, amount_paid, payment_date, payment_mode, transaction_ref, units_consumed, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.InvoiceID, p.Amount, p.PaidAt, p.Mode, p.TransactionRef, p.UnitsConsumed, nullString(p.Notes),
	)
	if err != nil {
		return 0, paymentInsertError(err, p.InvoiceID)
	}
	return res.LastInsertId()
}

// paymentInsertError translates a failed payment INSERT. The unique index on
// transaction_ref catches a duplicate that slipped past ReferenceExists.
func paymentInsertError(err error, invoiceID int64) error {
	switch {
	case isDuplicateEntry(err):
		return billing.ErrDuplicateReference
	case isForeignKeyConstraintError(err):
		return fmt.Errorf("%w: invoice %d", billing.ErrReferentialIntegrity, invoiceID)
	default:
		return fmt.Errorf("insert payment: %w", err)
	}
}

func (t *ledgerTx) UpdateInvoiceStatus(ctx context.Context, invoiceID int64, from, to billing.Status) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE invoice SET status = ? WHERE id = ? AND status = ?`, to, invoiceID, from,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("invoice %d is no longer %s", invoiceID, from)
	}
	return nil
}

func (t *ledgerTx) Receipt(ctx context.Context, paymentID int64) (billing.Receipt, error) {
	var (
		rc                       billing.Receipt
		c                        models.Customer
		middle, email, phone, ad sql.NullString
		paidAt, invoiceDate      sql.NullTime
		status                   string
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT p.id, p.invoice_id, i.customer_id, p.amount_paid, p.payment_date, p.payment_mode, p.transaction_ref,
		       i.invoice_date, i.grand_total, i.status,
		       c.first_name, c.middle_name, c.last_name, c.email, c.contact_no, c.address
		FROM payment p
		JOIN invoice i ON i.id = p.invoice_id
		JOIN customer c ON c.id = i.customer_id
		WHERE p.id = ?`, paymentID,
	).Scan(&rc.PaymentID, &rc.InvoiceID, &rc.CustomerID, &rc.AmountPaid, &paidAt, &rc.PaymentMode, &rc.TransactionRef,
		&invoiceDate, &rc.InvoiceTotal, &status,
		&c.FirstName, &middle, &c.LastName, &email, &phone, &ad)
	if errors.Is(err, sql.ErrNoRows) {
		return billing.Receipt{}, billing.NotFound("payment")
	}
	if err != nil {
		return billing.Receipt{}, err
	}

	c.MiddleName = middle.String
	rc.InvoiceStatus = billing.Status(status)
	rc.CustomerName = c.FullName()
	rc.CustomerEmail = email.String
	rc.CustomerPhone = phone.String
	rc.CustomerAddress = ad.String
	rc.PaymentDate = receiptDate(paidAt)
	rc.InvoiceDate = receiptDate(invoiceDate)
	return rc, nil
}

// receiptDate prints the calendar date of t, or "" when it is NULL.
func receiptDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(receiptDateLayout)
}

// List returns payments together with open invoices that have not received
// any payment yet, newest first.
func (r *PaymentRepository) List(ctx context.Context, f models.PaymentFilter) ([]models.PaymentListItem, error) {
	query := `
		SELECT payment_id, invoice_id, customer_id, customer_name, amount, date, method, transaction_ref, status, invoice_status, record_type
		FROM (
			SELECT p.id AS payment_id, i.id AS invoice_id, c.id AS customer_id,
			       CONCAT(c.first_name, ' ', c.last_name) AS customer_name,
			       p.amount_paid AS amount, p.payment_date AS date, p.payment_mode AS method,
			       p.transaction_ref AS transaction_ref, 'Completed' AS status, i.status AS invoice_status,
			       'payment' AS record_type
			FROM payment p
			JOIN invoice i ON i.id = p.invoice_id
			JOIN customer c ON c.id = i.customer_id
			UNION ALL
			SELECT NULL, i.id, c.id, CONCAT(c.first_name, ' ', c.last_name),
			       i.grand_total, i.invoice_date, 'N/A', NULL, 'Unpaid', i.status, 'invoice'
			FROM invoice i
			JOIN customer c ON c.id = i.customer_id
			WHERE i.status IN (?, ?)
			  AND NOT EXISTS (SELECT 1 FROM payment p WHERE p.invoice_id = i.id)
		) AS ledger
		WHERE 1 = 1`
	args := []interface{}{billing.StatusPending, billing.StatusPartiallyPaid}

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		query += ` AND (customer_name LIKE ? OR transaction_ref LIKE ? OR CAST(invoice_id AS CHAR) = ?)`
		args = append(args, like, like, s)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Method != "" {
		query += ` AND method = ?`
		args = append(args, f.Method)
	}
	if f.CustomerID > 0 {
		query += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	query += ` ORDER BY date DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PaymentListItem
	for rows.Next() {
		var (
			it        models.PaymentListItem
			paymentID sql.NullInt64
			ref       sql.NullString
			invStatus string
		)
		if err := rows.Scan(&paymentID, &it.InvoiceID, &it.CustomerID, &it.CustomerName, &it.Amount, &it.Date,
			&it.Method, &ref, &it.Status, &invStatus, &it.RecordType); err != nil {
			return nil, err
		}
		if paymentID.Valid {
			id := paymentID.Int64
			it.ID = &id
		}
		if ref.Valid {
			s := ref.String
			it.TransactionRef = &s
		}
		it.InvoiceStatus = billing.Status(invStatus)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PaymentRepository) Stats(ctx context.Context) (models.PaymentStats, error) {
	var s models.PaymentStats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount_paid), 0) FROM payment`,
	).Scan(&s.TotalPayments, &s.TotalAmountCollected)
	if err != nil {
		return s, err
	}
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoice WHERE status IN (?, ?)`, billing.StatusPending, billing.StatusPartiallyPaid,
	).Scan(&s.PendingPayments)
	return s, err
}

// Detail returns one payment with its invoice and customer.
func (r *PaymentRepository) Detail(ctx context.Context, paymentID int64) (models.PaymentDetail, error) {
	var (
		d       models.PaymentDetail
		notes   sql.NullString
		invID   int64
		invoice models.Invoice
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, invoice_id, amount_paid, payment_date, payment_mode, transaction_ref, units_consumed, notes
		FROM payment WHERE id = ?`, paymentID,
	).Scan(&d.ID, &d.InvoiceID, &d.AmountPaid, &d.PaymentDate, &d.PaymentMode, &d.TransactionRef, &d.UnitsConsumed, &notes)
	if errors.Is(err, sql.ErrNoRows) {
		return d, billing.NotFound("payment")
	}
	if err != nil {
		return d, err
	}
	if notes.Valid {
		d.Notes = &notes.String
	}
	invID = d.InvoiceID

	invoice, err = scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.id = ?`, invID))
	if err != nil {
		return d, fmt.Errorf("invoice %d: %w", invID, err)
	}
	d.Invoice = invoice

	d.Customer, err = scanCustomer(r.DB.QueryRowContext(ctx, customerSelect+` WHERE id = ?`, invoice.CustomerID))
	if err != nil {
		return d, fmt.Errorf("customer %d: %w", invoice.CustomerID, err)
	}
	return d, nil
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.PaymentSummary, error) {
	return r.listSummaries(ctx, `
		SELECT p.id, p.invoice_id, p.amount_paid, p.payment_date, p.payment_mode, p.transaction_ref
		FROM payment p WHERE p.invoice_id = ? ORDER BY p.payment_date DESC, p.id DESC`, invoiceID)
}

// ListByCustomer returns the newest payments of a customer; limit <= 0 means all.
func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]models.PaymentSummary, error) {
	query := `
		SELECT p.id, p.invoice_id, p.amount_paid, p.payment_date, p.payment_mode, p.transaction_ref
		FROM payment p JOIN invoice i ON i.id = p.invoice_id
		WHERE i.customer_id = ? ORDER BY p.payment_date DESC, p.id DESC`
	args := []interface{}{customerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.listSummaries(ctx, query, args...)
}

func (r *PaymentRepository) listSummaries(ctx context.Context, query string, args ...interface{}) ([]models.PaymentSummary, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PaymentSummary{}
	for rows.Next() {
		var p models.PaymentSummary
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.AmountPaid, &p.PaymentDate, &p.PaymentMode, &p.TransactionRef); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// zeroIfNull keeps aggregate results non-null in JSON.
func zeroIfNull(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}
