package rules

import (
	"sort"

	"github.com/pradyutnair/finance-sub003/src/models"
)

// MatchesRule reports whether every (AND) or any (OR) condition of the rule
// matches the transaction. Disabled rules and rules with no conditions never
// match.
func MatchesRule(t models.Transaction, r models.TransactionRule) bool {
	if !r.Enabled || len(r.Conditions) == 0 {
		return false
	}
	if r.ConditionLogic == models.LogicOr {
		for _, c := range r.Conditions {
			if MatchCondition(c, t) {
				return true
			}
		}
		return false
	}
	// AND is the default combinator.
	for _, c := range r.Conditions {
		if !MatchCondition(c, t) {
			return false
		}
	}
	return true
}

// ApplyRule returns a copy of the transaction with each action's field
// overwritten. Actions apply in listed order; later actions on the same field
// win. Actions with an unexpected value type are skipped.
func ApplyRule(t models.Transaction, r models.TransactionRule) models.Transaction {
	out := t
	for _, a := range r.Actions {
		switch a.Type {
		case models.ActionSetCategory:
			if s, ok := a.Value.(string); ok {
				out.Category = s
			}
		case models.ActionSetDescription:
			if s, ok := a.Value.(string); ok {
				out.Description = s
			}
		case models.ActionSetCounterparty:
			if s, ok := a.Value.(string); ok {
				out.Counterparty = s
			}
		case models.ActionSetExclude:
			if b, ok := a.Value.(bool); ok {
				out.Exclude = b
			}
		}
	}
	return out
}

// ApplyOutcome reports the result of ApplyBestMatchingRule for one transaction.
type ApplyOutcome struct {
	Updated     bool
	Transaction models.Transaction
	AppliedRule *models.TransactionRule
}

// ApplyBestMatchingRule applies the first matching rule in ascending priority
// order and stops. Ties keep the original list order (stable sort), so rule
// order as configured by the user is significant. At most one rule is applied
// per transaction per call.
func ApplyBestMatchingRule(t models.Transaction, ruleSet []models.TransactionRule) ApplyOutcome {
	ordered := SortRulesByPriority(ruleSet)
	for i := range ordered {
		if MatchesRule(t, ordered[i]) {
			return ApplyOutcome{
				Updated:     true,
				Transaction: ApplyRule(t, ordered[i]),
				AppliedRule: &ordered[i],
			}
		}
	}
	return ApplyOutcome{Updated: false, Transaction: t}
}

// SortRulesByPriority returns a copy sorted by ascending priority, preserving
// insertion order within equal priorities.
func SortRulesByPriority(ruleSet []models.TransactionRule) []models.TransactionRule {
	ordered := make([]models.TransactionRule, len(ruleSet))
	copy(ordered, ruleSet)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}
