package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type MeterRepository struct {
	DB *sql.DB
}

const meterSelect = `
	SELECT m.id, m.customer_id, m.tariff_id, m.meter_type, m.installation_date,
	       m.city, m.pincode, m.street, m.house_no, m.state, t.description, t.rate_per_unit
	FROM meter m
	LEFT JOIN tariff t ON t.id = m.tariff_id`

func scanMeter(s rowScanner) (models.Meter, error) {
	var (
		m    models.Meter
		desc sql.NullString
	)
	err := s.Scan(&m.ID, &m.CustomerID, &m.TariffID, &m.MeterType, &m.InstallationDate,
		&m.City, &m.Pincode, &m.Street, &m.HouseNo, &m.State, &desc, &m.RatePerUnit)
	m.TariffDescription = desc.String
	return m, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMeter(ctx context.Context, db execer, m models.Meter) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO meter (customer_id, tariff_id, meter_type, installation_date, city, pincode, street, house_no, state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CustomerID, m.TariffID, m.MeterType, m.InstallationDate.Format(receiptDateLayout),
		m.City, m.Pincode, m.Street, m.HouseNo, m.State,
	)
	if isForeignKeyConstraintError(err) {
		return 0, fmt.Errorf("%w: meter must reference an existing customer and tariff", billing.ErrReferentialIntegrity)
	}
	if err != nil {
		return 0, fmt.Errorf("insert meter: %w", err)
	}
	return res.LastInsertId()
}

func (r *MeterRepository) Create(ctx context.Context, m models.Meter) (int64, error) {
	return insertMeter(ctx, r.DB, m)
}

func (r *MeterRepository) GetByID(ctx context.Context, id int64) (models.Meter, error) {
	m, err := scanMeter(r.DB.QueryRowContext(ctx, meterSelect+` WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return m, billing.NotFound("meter")
	}
	return m, err
}

func (r *MeterRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Meter, error) {
	rows, err := r.DB.QueryContext(ctx, meterSelect+` WHERE m.customer_id = ? ORDER BY m.id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meters := []models.Meter{}
	for rows.Next() {
		m, err := scanMeter(rows)
		if err != nil {
			return nil, err
		}
		meters = append(meters, m)
	}
	return meters, rows.Err()
}
