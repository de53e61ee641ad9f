package rules

import (
	"testing"

	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func sampleTxn() models.Transaction {
	return models.Transaction{
		ID:           "txn-1",
		UserID:       "user-1",
		BookingDate:  "2025-06-15",
		Amount:       decimal.NewFromFloat(-75.20),
		Currency:     "EUR",
		Description:  "Order 123-4567",
		Counterparty: "AMAZON EU SARL",
		Category:     models.DefaultCategory,
	}
}

func TestMatchCondition(t *testing.T) {
	txn := sampleTxn()

	tests := []struct {
		name string
		cond models.Condition
		want bool
	}{
		{
			name: "case-insensitive contains on counterparty",
			cond: models.Condition{Field: "counterparty", Operator: "contains", Value: "Amazon", CaseSensitive: boolPtr(false)},
			want: true,
		},
		{
			name: "contains is case-sensitive by default",
			cond: models.Condition{Field: "counterparty", Operator: "contains", Value: "Amazon"},
			want: false,
		},
		{
			name: "equals on counterparty",
			cond: models.Condition{Field: "counterparty", Operator: "equals", Value: "AMAZON EU SARL"},
			want: true,
		},
		{
			name: "notEquals on category",
			cond: models.Condition{Field: "category", Operator: "notEquals", Value: "Groceries"},
			want: true,
		},
		{
			name: "startsWith on description",
			cond: models.Condition{Field: "description", Operator: "startsWith", Value: "Order"},
			want: true,
		},
		{
			name: "endsWith on description",
			cond: models.Condition{Field: "description", Operator: "endsWith", Value: "4567"},
			want: true,
		},
		{
			name: "notContains on description",
			cond: models.Condition{Field: "description", Operator: "notContains", Value: "refund"},
			want: true,
		},
		{
			name: "lessThan matches a larger expense",
			cond: models.Condition{Field: "amount", Operator: "lessThan", Value: float64(-50)},
			want: true,
		},
		{
			name: "greaterThan does not match a larger expense",
			cond: models.Condition{Field: "amount", Operator: "greaterThan", Value: float64(-50)},
			want: false,
		},
		{
			name: "amount equals via string value",
			cond: models.Condition{Field: "amount", Operator: "equals", Value: "-75.20"},
			want: true,
		},
		{
			name: "greaterThanOrEqual on amount",
			cond: models.Condition{Field: "amount", Operator: "greaterThanOrEqual", Value: float64(-75.20)},
			want: true,
		},
		{
			name: "lessThanOrEqual on amount",
			cond: models.Condition{Field: "amount", Operator: "lessThanOrEqual", Value: float64(-75.20)},
			want: true,
		},
		{
			name: "bookingDate range comparison is lexicographic",
			cond: models.Condition{Field: "bookingDate", Operator: "greaterThanOrEqual", Value: "2025-01-01"},
			want: true,
		},
		{
			name: "bookingDate equals",
			cond: models.Condition{Field: "bookingDate", Operator: "equals", Value: "2025-06-15"},
			want: true,
		},
		{
			name: "bookingDate lessThan later date",
			cond: models.Condition{Field: "bookingDate", Operator: "lessThan", Value: "2025-07-01"},
			want: true,
		},
		{
			name: "unknown field fails closed",
			cond: models.Condition{Field: "merchantCode", Operator: "equals", Value: "x"},
			want: false,
		},
		{
			name: "unknown operator fails closed",
			cond: models.Condition{Field: "description", Operator: "matchesRegex", Value: ".*"},
			want: false,
		},
		{
			name: "contains on amount fails closed",
			cond: models.Condition{Field: "amount", Operator: "contains", Value: "75"},
			want: false,
		},
		{
			name: "numeric value against string field fails closed",
			cond: models.Condition{Field: "description", Operator: "equals", Value: float64(42)},
			want: false,
		},
		{
			name: "string value that is not a number fails closed on amount",
			cond: models.Condition{Field: "amount", Operator: "lessThan", Value: "lots"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCondition(tt.cond, txn))
		})
	}
}

func TestMatchConditionSmallExpenseNotBelowThreshold(t *testing.T) {
	txn := sampleTxn()
	txn.Amount = decimal.NewFromFloat(-10)
	cond := models.Condition{Field: "amount", Operator: "lessThan", Value: float64(-50)}
	assert.False(t, MatchCondition(cond, txn))
}
