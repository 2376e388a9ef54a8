package services

import (
	"context"

	"billingBack/internal/billing"
	"billingBack/internal/models"
)

type TariffService struct {
	Repo TariffStore
}

// Lookup reads the tariff from storage on every call.
func (s *TariffService) Lookup(ctx context.Context, tariffID int64) (models.Tariff, error) {
	if tariffID <= 0 {
		return models.Tariff{}, billing.Invalid("tariff id must be a positive number")
	}
	return s.Repo.GetByID(ctx, tariffID)
}

func (s *TariffService) List(ctx context.Context) ([]models.Tariff, error) {
	return s.Repo.List(ctx)
}
