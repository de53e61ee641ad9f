package models

import (
	"fmt"
	"time"
)

// Condition fields.
const (
	FieldCounterparty = "counterparty"
	FieldDescription  = "description"
	FieldAmount       = "amount"
	FieldBookingDate  = "bookingDate"
	FieldCategory     = "category"
)

// Condition operators.
const (
	OpEquals             = "equals"
	OpNotEquals          = "notEquals"
	OpContains           = "contains"
	OpNotContains        = "notContains"
	OpStartsWith         = "startsWith"
	OpEndsWith           = "endsWith"
	OpGreaterThan        = "greaterThan"
	OpLessThan           = "lessThan"
	OpGreaterThanOrEqual = "greaterThanOrEqual"
	OpLessThanOrEqual    = "lessThanOrEqual"
)

// Condition combinators.
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Action types.
const (
	ActionSetCategory     = "setCategory"
	ActionSetExclude      = "setExclude"
	ActionSetDescription  = "setDescription"
	ActionSetCounterparty = "setCounterparty"
)

// Condition is a single predicate over one transaction field. String comparisons
// are case-sensitive unless CaseSensitive is explicitly false.
type Condition struct {
	Field         string `json:"field"`
	Operator      string `json:"operator"`
	Value         any    `json:"value"`
	CaseSensitive *bool  `json:"caseSensitive,omitempty"`
}

// Action overwrites one transaction field when its rule matches.
type Action struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// TransactionRule auto-adjusts transactions whose fields satisfy its conditions.
// Lower priority value = evaluated first among a user's rules.
type TransactionRule struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Enabled        bool        `json:"enabled"`
	Priority       int         `json:"priority"`
	Conditions     []Condition `json:"conditions"`
	ConditionLogic string      `json:"conditionLogic"`
	Actions        []Action    `json:"actions"`
	MatchCount     int         `json:"matchCount"`
	LastMatched    *time.Time  `json:"lastMatched,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Validate reports whether the rule is well-formed enough to be persisted.
func (r *TransactionRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("rule must have at least one condition")
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("rule must have at least one action")
	}
	if r.ConditionLogic != "" && r.ConditionLogic != LogicAnd && r.ConditionLogic != LogicOr {
		return fmt.Errorf("conditionLogic must be %s or %s", LogicAnd, LogicOr)
	}
	return nil
}

// UpdateRuleRequest is a partial rule update; nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name           *string      `json:"name,omitempty"`
	Description    *string      `json:"description,omitempty"`
	Enabled        *bool        `json:"enabled,omitempty"`
	Priority       *int         `json:"priority,omitempty"`
	Conditions     *[]Condition `json:"conditions,omitempty"`
	ConditionLogic *string      `json:"conditionLogic,omitempty"`
	Actions        *[]Action    `json:"actions,omitempty"`
}
