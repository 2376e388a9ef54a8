package billing

import "github.com/shopspring/decimal"

// TaxRate is applied to every base amount. It is not configurable per tariff.
var TaxRate = decimal.New(5, -2)

// Amounts is the priced result of one billing event.
type Amounts struct {
	Units      decimal.Decimal `json:"unitsConsumed"`
	Rate       decimal.Decimal `json:"unitRate"`
	Base       decimal.Decimal `json:"baseAmount"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Calculate prices units at rate. Nothing is rounded here; rounding only
// happens when a payment is compared against the outstanding balance.
func Calculate(units, rate decimal.Decimal) (Amounts, error) {
	if !units.IsPositive() {
		return Amounts{}, Invalid("units consumed must be a positive number")
	}
	if !rate.IsPositive() {
		return Amounts{}, Invalid("rate per unit must be a positive number")
	}

	base := units.Mul(rate)
	tax := base.Mul(TaxRate)

	return Amounts{
		Units:      units,
		Rate:       rate,
		Base:       base,
		Tax:        tax,
		GrandTotal: base.Add(tax),
	}, nil
}
