package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"

	"billingBack/internal/billing"
)

func TestMySQLErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		duplicate bool
		foreign   bool
	}{
		{"duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'TX-1' for key 'transaction_ref'"}, true, false},
		{"row is referenced", &mysql.MySQLError{Number: 1451}, false, true},
		{"no referenced row", &mysql.MySQLError{Number: 1452}, false, true},
		{"wrapped duplicate", fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), true, false},
		{"deadlock", &mysql.MySQLError{Number: 1213}, false, false},
		{"plain error", errors.New("connection reset"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntry(tt.err); got != tt.duplicate {
				t.Errorf("isDuplicateEntry = %v, want %v", got, tt.duplicate)
			}
			if got := isForeignKeyConstraintError(tt.err); got != tt.foreign {
				t.Errorf("isForeignKeyConstraintError = %v, want %v", got, tt.foreign)
			}
		})
	}
}

func TestPaymentInsertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate reference", &mysql.MySQLError{Number: 1062}, billing.ErrDuplicateReference},
		{"invoice deleted", &mysql.MySQLError{Number: 1452}, billing.ErrReferentialIntegrity},
		{"invoice still referenced", &mysql.MySQLError{Number: 1451}, billing.ErrReferentialIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paymentInsertError(tt.err, 9); !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	got := paymentInsertError(other, 9)
	if !errors.Is(got, other) || errors.Is(got, billing.ErrDuplicateReference) || errors.Is(got, billing.ErrReferentialIntegrity) {
		t.Errorf("unrelated error mapped to %v", got)
	}
}
