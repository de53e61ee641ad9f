package rules

import (
	"testing"

	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledRule(name string, conditions []models.Condition, actions []models.Action) models.TransactionRule {
	return models.TransactionRule{
		ID:         "rule-" + name,
		UserID:     "user-1",
		Name:       name,
		Enabled:    true,
		Conditions: conditions,
		Actions:    actions,
	}
}

func TestMatchesRuleDisabledNeverMatches(t *testing.T) {
	txn := sampleTxn()
	rule := enabledRule("amazon",
		[]models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}},
		[]models.Action{{Type: "setCategory", Value: "Shopping"}})
	require.True(t, MatchesRule(txn, rule))

	rule.Enabled = false
	assert.False(t, MatchesRule(txn, rule))
}

func TestMatchesRuleEmptyConditionsFailsClosed(t *testing.T) {
	rule := enabledRule("empty", nil, []models.Action{{Type: "setCategory", Value: "Shopping"}})
	assert.False(t, MatchesRule(sampleTxn(), rule))
}

func TestMatchesRuleAndOr(t *testing.T) {
	txn := sampleTxn()
	match := models.Condition{Field: "counterparty", Operator: "contains", Value: "AMAZON"}
	noMatch := models.Condition{Field: "category", Operator: "equals", Value: "Groceries"}

	tests := []struct {
		name  string
		logic string
		conds []models.Condition
		want  bool
	}{
		{"AND all match", models.LogicAnd, []models.Condition{match, match}, true},
		{"AND one fails", models.LogicAnd, []models.Condition{match, noMatch}, false},
		{"OR one matches", models.LogicOr, []models.Condition{noMatch, match}, true},
		{"OR none match", models.LogicOr, []models.Condition{noMatch, noMatch}, false},
		{"empty logic defaults to AND", "", []models.Condition{match, noMatch}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := enabledRule("combo", tt.conds, []models.Action{{Type: "setExclude", Value: true}})
			rule.ConditionLogic = tt.logic
			assert.Equal(t, tt.want, MatchesRule(txn, rule))
		})
	}
}

func TestApplyRuleOverwritesOnlyActionFields(t *testing.T) {
	txn := sampleTxn()
	rule := enabledRule("groceries",
		[]models.Condition{{Field: "category", Operator: "equals", Value: "Uncategorized"}},
		[]models.Action{{Type: "setCategory", Value: "Groceries"}})

	got := ApplyRule(txn, rule)
	assert.Equal(t, "Groceries", got.Category)

	// Everything except the acted-on field is untouched.
	got.Category = txn.Category
	assert.Equal(t, txn, got)
}

func TestApplyRuleLaterActionOnSameFieldWins(t *testing.T) {
	rule := enabledRule("twice",
		[]models.Condition{{Field: "category", Operator: "equals", Value: "Uncategorized"}},
		[]models.Action{
			{Type: "setCategory", Value: "Groceries"},
			{Type: "setCategory", Value: "Restaurants"},
			{Type: "setExclude", Value: true},
			{Type: "setDescription", Value: "cleaned up"},
			{Type: "setCounterparty", Value: "ACME"},
		})
	got := ApplyRule(sampleTxn(), rule)
	assert.Equal(t, "Restaurants", got.Category)
	assert.True(t, got.Exclude)
	assert.Equal(t, "cleaned up", got.Description)
	assert.Equal(t, "ACME", got.Counterparty)
}

func TestApplyRuleIsIdempotent(t *testing.T) {
	rule := enabledRule("idem",
		[]models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}},
		[]models.Action{{Type: "setCategory", Value: "Shopping"}, {Type: "setExclude", Value: true}})
	once := ApplyRule(sampleTxn(), rule)
	twice := ApplyRule(once, rule)
	assert.Equal(t, once, twice)
}

func TestApplyRuleSkipsMistypedActionValues(t *testing.T) {
	rule := enabledRule("badvalues",
		[]models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}},
		[]models.Action{
			{Type: "setCategory", Value: float64(7)},
			{Type: "setExclude", Value: "yes"},
		})
	got := ApplyRule(sampleTxn(), rule)
	assert.Equal(t, sampleTxn(), got)
}

func TestApplyBestMatchingRulePicksLowestPriority(t *testing.T) {
	txn := sampleTxn()
	cond := []models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}}

	second := enabledRule("second", cond, []models.Action{{Type: "setCategory", Value: "Second"}})
	second.Priority = 2
	first := enabledRule("first", cond, []models.Action{{Type: "setCategory", Value: "First"}})
	first.Priority = 1

	// Listed out of order on purpose; priority decides.
	outcome := ApplyBestMatchingRule(txn, []models.TransactionRule{second, first})
	require.True(t, outcome.Updated)
	assert.Equal(t, "First", outcome.Transaction.Category)
	assert.Equal(t, "first", outcome.AppliedRule.Name)
}

func TestApplyBestMatchingRuleTieKeepsInsertionOrder(t *testing.T) {
	txn := sampleTxn()
	cond := []models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}}

	a := enabledRule("a", cond, []models.Action{{Type: "setCategory", Value: "A"}})
	b := enabledRule("b", cond, []models.Action{{Type: "setCategory", Value: "B"}})
	a.Priority, b.Priority = 5, 5

	outcome := ApplyBestMatchingRule(txn, []models.TransactionRule{a, b})
	require.True(t, outcome.Updated)
	assert.Equal(t, "A", outcome.Transaction.Category)
}

func TestApplyBestMatchingRuleAppliesAtMostOne(t *testing.T) {
	txn := sampleTxn()
	first := enabledRule("first",
		[]models.Condition{{Field: "counterparty", Operator: "contains", Value: "AMAZON"}},
		[]models.Action{{Type: "setCategory", Value: "Shopping"}})
	first.Priority = 1
	second := enabledRule("second",
		[]models.Condition{{Field: "category", Operator: "equals", Value: "Shopping"}},
		[]models.Action{{Type: "setExclude", Value: true}})
	second.Priority = 2

	// The second rule would match the first rule's output, but evaluation stops
	// after the first applied rule.
	outcome := ApplyBestMatchingRule(txn, []models.TransactionRule{first, second})
	require.True(t, outcome.Updated)
	assert.Equal(t, "Shopping", outcome.Transaction.Category)
	assert.False(t, outcome.Transaction.Exclude)
}

func TestApplyBestMatchingRuleNoMatchReturnsOriginal(t *testing.T) {
	txn := sampleTxn()
	rule := enabledRule("nomatch",
		[]models.Condition{{Field: "category", Operator: "equals", Value: "Groceries"}},
		[]models.Action{{Type: "setExclude", Value: true}})

	outcome := ApplyBestMatchingRule(txn, []models.TransactionRule{rule})
	assert.False(t, outcome.Updated)
	assert.Equal(t, txn, outcome.Transaction)
	assert.Nil(t, outcome.AppliedRule)
}

func TestSortRulesByPriorityDoesNotMutateInput(t *testing.T) {
	a := enabledRule("a", nil, nil)
	b := enabledRule("b", nil, nil)
	a.Priority, b.Priority = 9, 1
	in := []models.TransactionRule{a, b}

	out := SortRulesByPriority(in)
	assert.Equal(t, "b", out[0].Name)
	assert.Equal(t, "a", in[0].Name)
}
