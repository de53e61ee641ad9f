package rules

import (
	"strings"

	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/shopspring/decimal"
)

// MatchCondition evaluates a single condition against a single transaction.
// Unknown fields, unknown operators, and value type mismatches are treated as
// a non-match rather than an error, so corrupted rule data can never break a
// bulk evaluation.
func MatchCondition(c models.Condition, t models.Transaction) bool {
	switch c.Field {
	case models.FieldCounterparty:
		return matchString(c, t.Counterparty)
	case models.FieldDescription:
		return matchString(c, t.Description)
	case models.FieldCategory:
		return matchString(c, t.Category)
	case models.FieldAmount:
		return matchAmount(c, t.Amount)
	case models.FieldBookingDate:
		return matchDate(c, t.BookingDate)
	default:
		return false
	}
}

func matchString(c models.Condition, got string) bool {
	want, ok := c.Value.(string)
	if !ok {
		return false
	}
	if c.CaseSensitive != nil && !*c.CaseSensitive {
		got = strings.ToLower(got)
		want = strings.ToLower(want)
	}
	switch c.Operator {
	case models.OpEquals:
		return got == want
	case models.OpNotEquals:
		return got != want
	case models.OpContains:
		return strings.Contains(got, want)
	case models.OpNotContains:
		return !strings.Contains(got, want)
	case models.OpStartsWith:
		return strings.HasPrefix(got, want)
	case models.OpEndsWith:
		return strings.HasSuffix(got, want)
	default:
		return false
	}
}

func matchAmount(c models.Condition, got decimal.Decimal) bool {
	want, ok := toDecimal(c.Value)
	if !ok {
		return false
	}
	cmp := got.Cmp(want)
	switch c.Operator {
	case models.OpEquals:
		return cmp == 0
	case models.OpNotEquals:
		return cmp != 0
	case models.OpGreaterThan:
		return cmp > 0
	case models.OpLessThan:
		return cmp < 0
	case models.OpGreaterThanOrEqual:
		return cmp >= 0
	case models.OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

// matchDate compares ISO YYYY-MM-DD strings; lexicographic order equals
// chronological order for that format.
func matchDate(c models.Condition, got string) bool {
	want, ok := c.Value.(string)
	if !ok {
		return false
	}
	switch c.Operator {
	case models.OpEquals:
		return got == want
	case models.OpNotEquals:
		return got != want
	case models.OpGreaterThan:
		return got > want
	case models.OpLessThan:
		return got < want
	case models.OpGreaterThanOrEqual:
		return got >= want
	case models.OpLessThanOrEqual:
		return got <= want
	default:
		return false
	}
}

// toDecimal converts a JSON-decoded condition value to a decimal. JSON numbers
// arrive as float64; string-encoded amounts are accepted because the sync
// process stores amounts as strings.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
