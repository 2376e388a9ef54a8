package repositories

import (
	"context"
	"database/sql"
	"errors"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type TariffRepository struct {
	DB *sql.DB
}

const tariffSelect = `SELECT id, description, rate_per_unit, effective_from, effective_to FROM tariff`

func scanTariff(s rowScanner) (models.Tariff, error) {
	var (
		t        models.Tariff
		from, to sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.Description, &t.RatePerUnit, &from, &to); err != nil {
		return t, err
	}
	t.EffectiveFrom = timePtr(from)
	t.EffectiveTo = timePtr(to)
	return t, nil
}

// GetByID reads the tariff on every call; rates are never cached.
func (r *TariffRepository) GetByID(ctx context.Context, id int64) (models.Tariff, error) {
	t, err := scanTariff(r.DB.QueryRowContext(ctx, tariffSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, billing.NotFound("tariff")
	}
	return t, err
}

func (r *TariffRepository) List(ctx context.Context) ([]models.Tariff, error) {
	rows, err := r.DB.QueryContext(ctx, tariffSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tariffs := []models.Tariff{}
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, rows.Err()
}
