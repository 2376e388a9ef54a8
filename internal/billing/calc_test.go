package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		units string
		rate  string
		base  string
		tax   string
		total string
	}{
		{"whole units", "200", "5.5", "1100", "55", "1155"},
		{"fractional units", "123.45", "6.75", "833.2875", "41.664375", "874.951875"},
		{"small consumption", "0.5", "8", "4", "0.2", "4.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := decimal.RequireFromString(tt.units)
			rate := decimal.RequireFromString(tt.rate)

			got, err := Calculate(units, rate)
			require.NoError(t, err)

			assert.True(t, got.Base.Equal(decimal.RequireFromString(tt.base)), "base %s", got.Base)
			assert.True(t, got.Tax.Equal(decimal.RequireFromString(tt.tax)), "tax %s", got.Tax)
			assert.True(t, got.GrandTotal.Equal(decimal.RequireFromString(tt.total)), "total %s", got.GrandTotal)
			assert.True(t, got.GrandTotal.Equal(units.Mul(rate).Mul(decimal.RequireFromString("1.05"))))
		})
	}
}

func TestCalculateGrandTotalProperty(t *testing.T) {
	factor := decimal.RequireFromString("1.05")
	for u := int64(1); u <= 500; u += 37 {
		for r := int64(1); r <= 1200; r += 113 {
			units := decimal.New(u, -1)
			rate := decimal.New(r, -2)
			got, err := Calculate(units, rate)
			require.NoError(t, err)
			require.Truef(t, got.GrandTotal.Equal(units.Mul(rate).Mul(factor)), "units=%s rate=%s", units, rate)
		}
	}
}

func TestCalculateRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name  string
		units decimal.Decimal
		rate  decimal.Decimal
	}{
		{"zero units", decimal.Zero, decimal.NewFromInt(5)},
		{"negative units", decimal.NewFromInt(-3), decimal.NewFromInt(5)},
		{"zero rate", decimal.NewFromInt(10), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.units, tt.rate)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
