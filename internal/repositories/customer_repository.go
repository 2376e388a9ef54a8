package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type CustomerRepository struct {
	DB *sql.DB
}

const customerSelect = `SELECT id, first_name, middle_name, last_name, aadhaar, email, contact_no, address, created_at FROM customer`

func scanCustomer(s rowScanner) (models.Customer, error) {
	var (
		c                                      models.Customer
		middle, aadhaar, email, phone, address sql.NullString
	)
	err := s.Scan(&c.ID, &c.FirstName, &middle, &c.LastName, &aadhaar, &email, &phone, &address, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, billing.NotFound("customer")
	}
	if err != nil {
		return c, err
	}
	c.MiddleName = middle.String
	c.Aadhaar = aadhaar.String
	c.Email = email.String
	c.ContactNo = phone.String
	c.Address = address.String
	return c, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (models.Customer, error) {
	return scanCustomer(r.DB.QueryRowContext(ctx, customerSelect+` WHERE id = ?`, id))
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customer WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// List returns every customer with the latest bill, invoice and payment
// attached. The bill paid flag is derived from the account's open invoices.
func (r *CustomerRepository) List(ctx context.Context) ([]models.CustomerOverview, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.first_name, c.middle_name, c.last_name, c.aadhaar, c.email, c.contact_no, c.address, c.created_at,
		       b.id, b.due_date,
		       (SELECT COUNT(*) FROM invoice oi WHERE oi.customer_id = c.id AND oi.status IN (?, ?)),
		       li.status, li.grand_total,
		       lp.payment_mode, lp.payment_date, lp.units_consumed
		FROM customer c
		LEFT JOIN bill b ON b.id = (SELECT MAX(id) FROM bill WHERE customer_id = c.id)
		LEFT JOIN invoice li ON li.id = (SELECT MAX(id) FROM invoice WHERE customer_id = c.id)
		LEFT JOIN payment lp ON lp.id = (
			SELECT p.id FROM payment p JOIN invoice pi ON pi.id = p.invoice_id
			WHERE pi.customer_id = c.id ORDER BY p.payment_date DESC, p.id DESC LIMIT 1)
		ORDER BY c.id`,
		billing.StatusPending, billing.StatusPartiallyPaid,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CustomerOverview{}
	for rows.Next() {
		var (
			o                                      models.CustomerOverview
			middle, aadhaar, email, phone, address sql.NullString
			billID                                 sql.NullInt64
			billDue, paidAt                        sql.NullTime
			openInvoices                           int
			invStatus, mode                        sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.FirstName, &middle, &o.LastName, &aadhaar, &email, &phone, &address, &o.CreatedAt,
			&billID, &billDue, &openInvoices, &invStatus, &o.InvoiceTotal, &mode, &paidAt, &o.LastUnits); err != nil {
			return nil, err
		}
		o.MiddleName, o.Aadhaar, o.Email, o.ContactNo, o.Address = middle.String, aadhaar.String, email.String, phone.String, address.String
		if billID.Valid {
			id := billID.Int64
			paid := billing.BillPaid(openInvoices)
			o.LatestBillID = &id
			o.LatestBillPaid = &paid
			o.LatestBillDue = timePtr(billDue)
		}
		if invStatus.Valid {
			s := billing.Status(invStatus.String)
			o.InvoiceStatus = &s
		}
		if mode.Valid {
			m := mode.String
			o.LastPaymentMode = &m
		}
		o.LastPaymentDate = timePtr(paidAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateWithAccess stores the customer, its login and an optional first meter
// in one transaction.
func (r *CustomerRepository) CreateWithAccess(ctx context.Context, c models.Customer, username, passwordHash string, meter *models.Meter) (int64, *int64, error) {
	var (
		customerID int64
		meterID    *int64
	)
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO customer (first_name, middle_name, last_name, aadhaar, email, contact_no, address, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.FirstName, nullString(c.MiddleName), c.LastName, nullString(c.Aadhaar),
			nullString(c.Email), nullString(c.ContactNo), nullString(c.Address), c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
		if customerID, err = res.LastInsertId(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO customer_auth (customer_id, username, password_hash) VALUES (?, ?, ?)`,
			customerID, username, passwordHash,
		)
		if isDuplicateEntry(err) {
			return billing.Invalid("username %s is already taken", username)
		}
		if err != nil {
			return fmt.Errorf("insert customer auth: %w", err)
		}

		if meter != nil {
			m := *meter
			m.CustomerID = customerID
			id, err := insertMeter(ctx, tx, m)
			if err != nil {
				return err
			}
			meterID = &id
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return customerID, meterID, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c models.Customer) error {
	exists, err := r.Exists(ctx, c.ID)
	if err != nil {
		return err
	}
	if !exists {
		return billing.NotFound("customer")
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE customer SET first_name = ?, middle_name = ?, last_name = ?, aadhaar = ?, email = ?, contact_no = ?, address = ?
		WHERE id = ?`,
		c.FirstName, nullString(c.MiddleName), c.LastName, nullString(c.Aadhaar),
		nullString(c.Email), nullString(c.ContactNo), nullString(c.Address), c.ID,
	)
	return err
}

// Delete removes a customer that has never been invoiced, together with its
// logins, meters, bills and feedback.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var invoices int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoice WHERE customer_id = ?`, id).Scan(&invoices); err != nil {
			return err
		}
		if invoices > 0 {
			return billing.Invalid("customer has %d invoice(s) and cannot be deleted", invoices)
		}

		for _, stmt := range []string{
			`DELETE FROM feedback WHERE customer_id = ?`,
			`DELETE FROM customer_auth WHERE customer_id = ?`,
			`DELETE FROM bill WHERE customer_id = ?`,
			`DELETE FROM meter WHERE customer_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM customer WHERE id = ?`, id)
		if isForeignKeyConstraintError(err) {
			return fmt.Errorf("%w: customer %d is still referenced", billing.ErrReferentialIntegrity, id)
		}
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return billing.NotFound("customer")
		}
		return nil
	})
}
