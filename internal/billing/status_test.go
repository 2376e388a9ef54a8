package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		paid  string
		total string
		want  Status
	}{
		{"no payments", "0", "1000", StatusPending},
		{"partial", "400", "1000", StatusPartiallyPaid},
		{"exact", "1000", "1000", StatusPaid},
		{"over", "1000.01", "1000", StatusPaid},
		{"paid to the cent", "874.95", "874.951875", StatusPaid},
		{"one cent short", "874.94", "874.951875", StatusPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(d(tt.paid), d(tt.total))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Derive(d(tt.paid), d(tt.total)))
		})
	}
}

func TestOutstanding(t *testing.T) {
	assert.Equal(t, "1000.00", Outstanding(d("1000"), decimal.Zero).StringFixed(2))
	assert.Equal(t, "600.00", Outstanding(d("1000"), d("400")).StringFixed(2))
	assert.Equal(t, "0.00", Outstanding(d("1000"), d("1000")).StringFixed(2))
	assert.Equal(t, "0.00", Outstanding(d("1000"), d("1200")).StringFixed(2))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPending, true},
		{StatusPending, StatusPartiallyPaid, true},
		{StatusPending, StatusPaid, true},
		{StatusPartiallyPaid, StatusPartiallyPaid, true},
		{StatusPartiallyPaid, StatusPaid, true},
		{StatusPartiallyPaid, StatusPending, false},
		{StatusPaid, StatusPartiallyPaid, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusPaid, true},
		{Status("Cancelled"), StatusPaid, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestReconcileNeverMovesBackward(t *testing.T) {
	got, err := Reconcile(StatusPaid, d("400"), d("1000"))
	require.ErrorIs(t, err, ErrBackwardTransition)
	assert.Equal(t, StatusPaid, got)

	got, err = Reconcile(StatusPending, d("400"), d("1000"))
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, got)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Partially Paid")
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, s)

	_, err = ParseStatus("paid")
	assert.Error(t, err)
}

func TestLegacyBillFlag(t *testing.T) {
	assert.Equal(t, 1, LegacyBillFlag(0))
	assert.Equal(t, 0, LegacyBillFlag(2))
	assert.False(t, BillPaid(1))
}
