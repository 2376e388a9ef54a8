package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Tariff struct {
	ID            int64           `json:"tariffId"`
	Description   string          `json:"description"`
	RatePerUnit   decimal.Decimal `json:"ratePerUnit"`
	EffectiveFrom *time.Time      `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time      `json:"effectiveTo,omitempty"`
}
