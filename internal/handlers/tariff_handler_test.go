package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"billingBack/internal/billing"
	"billingBack/internal/models"
	"billingBack/internal/services"
)

type stubTariffStore []models.Tariff

func (s stubTariffStore) GetByID(ctx context.Context, id int64) (models.Tariff, error) {
	for _, t := range s {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Tariff{}, billing.NotFound("tariff")
}

func (s stubTariffStore) List(ctx context.Context) ([]models.Tariff, error) {
	return s, nil
}

func TestTariffListUsesDataEnvelope(t *testing.T) {
	tests := []struct {
		name  string
		store stubTariffStore
		want  int
	}{
		{"two tariffs", stubTariffStore{
			{ID: 1, Description: "Domestic", RatePerUnit: decimal.RequireFromString("6.75")},
			{ID: 2, Description: "Commercial", RatePerUnit: decimal.RequireFromString("9.10")},
		}, 2},
		{"no tariffs", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &TariffHandler{Service: &services.TariffService{Repo: tt.store}}
			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/api/tariffs", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if _, ok := body["tariffs"]; ok {
				t.Error("list still keyed by resource name")
			}
			data, ok := body["data"].([]interface{})
			if !ok || len(data) != tt.want {
				t.Fatalf("data = %v, want %d items", body["data"], tt.want)
			}
		})
	}
}
