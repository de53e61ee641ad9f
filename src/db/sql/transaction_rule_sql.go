package db

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/pradyutnair/finance-sub003/src/rules"
)

const ruleColumns = `id, user_id, name, description, enabled, priority, conditions, condition_logic, actions, match_count, last_matched, created_at, updated_at`

func scanRule(row pgx.Row) (*models.TransactionRule, error) {
	var r models.TransactionRule
	var rawConditions, rawActions []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &r.Enabled, &r.Priority,
		&rawConditions, &r.ConditionLogic, &rawActions, &r.MatchCount, &r.LastMatched,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if r.Conditions, err = decodeConditions(rawConditions); err != nil {
		return nil, err
	}
	if r.Actions, err = decodeActions(rawActions); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateTransactionRule(ctx context.Context, rule *models.TransactionRule) (*models.TransactionRule, error) {
	conditions, err := encodeJSON(rule.Conditions)
	if err != nil {
		return nil, err
	}
	actions, err := encodeJSON(rule.Actions)
	if err != nil {
		return nil, err
	}
	logic := rule.ConditionLogic
	if logic == "" {
		logic = models.LogicAnd
	}

	query := `
		INSERT INTO transaction_rules (id, user_id, name, description, enabled, priority, conditions, condition_logic, actions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + ruleColumns
	row := s.Pool.QueryRow(ctx, query, uuid.NewString(), rule.UserID, rule.Name,
		rule.Description, rule.Enabled, rule.Priority, conditions, logic, actions)
	return scanRule(row)
}

func (s *Store) GetTransactionRuleByID(ctx context.Context, userID, ruleID string) (*models.TransactionRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM transaction_rules
		WHERE id = $1 AND user_id = $2
	`
	rule, err := scanRule(s.Pool.QueryRow(ctx, query, ruleID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, rules.ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListTransactionRules returns the user's rules ordered by priority, then by
// creation recency. Rows whose stored conditions or actions no longer decode
// are skipped and logged rather than failing the whole listing.
func (s *Store) ListTransactionRules(ctx context.Context, userID string) ([]models.TransactionRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM transaction_rules
		WHERE user_id = $1
		ORDER BY priority, created_at DESC
	`
	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TransactionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			log.Printf("ERROR: Skipping malformed transaction rule for user %s: %v", userID, err)
			continue
		}
		result = append(result, *rule)
	}
	return result, rows.Err()
}

// UpdateTransactionRule applies a partial update. The row is fetched first so
// ownership is checked and unset fields keep their stored values.
func (s *Store) UpdateTransactionRule(ctx context.Context, userID, ruleID string, patch models.UpdateRuleRequest) (*models.TransactionRule, error) {
	rule, err := s.GetTransactionRuleByID(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		rule.Name = *patch.Name
	}
	if patch.Description != nil {
		rule.Description = *patch.Description
	}
	if patch.Enabled != nil {
		rule.Enabled = *patch.Enabled
	}
	if patch.Priority != nil {
		rule.Priority = *patch.Priority
	}
	if patch.Conditions != nil {
		rule.Conditions = *patch.Conditions
	}
	if patch.ConditionLogic != nil {
		rule.ConditionLogic = *patch.ConditionLogic
	}
	if patch.Actions != nil {
		rule.Actions = *patch.Actions
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	conditions, err := encodeJSON(rule.Conditions)
	if err != nil {
		return nil, err
	}
	actions, err := encodeJSON(rule.Actions)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE transaction_rules
		SET name = $1, description = $2, enabled = $3, priority = $4, conditions = $5, condition_logic = $6, actions = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + ruleColumns
	row := s.Pool.QueryRow(ctx, query, rule.Name, rule.Description, rule.Enabled,
		rule.Priority, conditions, rule.ConditionLogic, actions, ruleID, userID)
	updated, err := scanRule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, rules.ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteTransactionRule(ctx context.Context, userID, ruleID string) error {
	query := `DELETE FROM transaction_rules WHERE id = $1 AND user_id = $2`
	cmd, err := s.Pool.Exec(ctx, query, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return rules.ErrRuleNotFound
	}
	return nil
}

// RecordRuleMatches bumps the rule's cumulative match statistics after a
// committed bulk apply.
func (s *Store) RecordRuleMatches(ctx context.Context, userID, ruleID string, applied int, matchedAt time.Time) error {
	query := `
		UPDATE transaction_rules
		SET match_count = match_count + $1, last_matched = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`
	cmd, err := s.Pool.Exec(ctx, query, applied, matchedAt, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return rules.ErrRuleNotFound
	}
	return nil
}
