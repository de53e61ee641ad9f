package rules

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pradyutnair/finance-sub003/src/models"
)

var (
	// ErrRuleNotFound covers both a missing rule id and an ownership mismatch,
	// so callers cannot probe for other users' rule ids.
	ErrRuleNotFound = errors.New("transaction rule not found")
	// ErrRuleDisabled is returned when a bulk apply targets a disabled rule.
	ErrRuleDisabled = errors.New("transaction rule is disabled")
)

// RuleStore loads rules and records match statistics.
type RuleStore interface {
	GetTransactionRuleByID(ctx context.Context, userID, ruleID string) (*models.TransactionRule, error)
	RecordRuleMatches(ctx context.Context, userID, ruleID string, applied int, matchedAt time.Time) error
}

// TransactionSource serves a user's transaction window and supports
// invalidation after writes. The TTL cache satisfies this.
type TransactionSource interface {
	Get(ctx context.Context, userID string) ([]models.Transaction, error)
	Invalidate(userID string)
}

// TransactionWriter persists partial field updates for a single transaction.
type TransactionWriter interface {
	UpdateTransactionFields(ctx context.Context, userID, txnID string, fields map[string]any) error
}

// ApplyOptions controls a bulk rule application.
type ApplyOptions struct {
	DryRun bool `json:"dryRun"`
	Limit  int  `json:"limit"`
}

// ApplyError records one failed per-transaction write during a bulk apply.
type ApplyError struct {
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

// ApplyResult is the outcome of a bulk rule application. TotalModified lower
// than TotalMatched signals partial failure (or no-op matches) to the caller.
type ApplyResult struct {
	ModifiedTransactionIDs []string     `json:"modifiedTransactionIds"`
	TotalMatched           int          `json:"totalMatched"`
	TotalModified          int          `json:"totalModified"`
	Errors                 []ApplyError `json:"errors,omitempty"`
}

// Applier bulk-applies a single rule across a user's cached transaction window.
type Applier struct {
	rules  RuleStore
	source TransactionSource
	writer TransactionWriter
	now    func() time.Time
}

func NewApplier(rules RuleStore, source TransactionSource, writer TransactionWriter) *Applier {
	return &Applier{rules: rules, source: source, writer: writer, now: time.Now}
}

// ApplyRule evaluates one rule against the user's transaction window. In dry-run
// mode it only reports would-be matches. In commit mode it writes just the
// changed fields per match, collecting per-record write failures without
// aborting the batch, then updates the rule's match statistics and invalidates
// the user's transaction cache.
func (a *Applier) ApplyRule(ctx context.Context, userID, ruleID string, opts ApplyOptions) (*ApplyResult, error) {
	rule, err := a.rules.GetTransactionRuleByID(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}
	if !rule.Enabled {
		return nil, ErrRuleDisabled
	}

	txns, err := a.source.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions for user %s: %w", userID, err)
	}
	if opts.Limit > 0 && len(txns) > opts.Limit {
		txns = txns[:opts.Limit]
	}

	result := &ApplyResult{ModifiedTransactionIDs: []string{}}
	candidate := []models.TransactionRule{*rule}

	for _, txn := range txns {
		outcome := ApplyBestMatchingRule(txn, candidate)
		if !outcome.Updated {
			continue
		}
		result.TotalMatched++

		if opts.DryRun {
			result.ModifiedTransactionIDs = append(result.ModifiedTransactionIDs, txn.ID)
			continue
		}

		fields := changedFields(txn, outcome.Transaction)
		if len(fields) == 0 {
			// Matched but every action was already in effect.
			continue
		}
		if err := a.writer.UpdateTransactionFields(ctx, userID, txn.ID, fields); err != nil {
			log.Printf("ERROR: Failed to update transaction %s while applying rule %s for user %s: %v", txn.ID, ruleID, userID, err)
			result.Errors = append(result.Errors, ApplyError{TransactionID: txn.ID, Message: err.Error()})
			continue
		}
		result.TotalModified++
		result.ModifiedTransactionIDs = append(result.ModifiedTransactionIDs, txn.ID)
	}

	if !opts.DryRun && result.TotalMatched > 0 {
		if err := a.rules.RecordRuleMatches(ctx, userID, rule.ID, result.TotalModified, a.now()); err != nil {
			// Statistics are best-effort; the writes already landed.
			log.Printf("ERROR: Failed to record match stats for rule %s, user %s: %v", ruleID, userID, err)
		}
		a.source.Invalidate(userID)
		log.Printf("INFO: Applied rule %s for user %s: %d matched, %d modified", ruleID, userID, result.TotalMatched, result.TotalModified)
	}

	return result, nil
}

// changedFields computes the minimal column set to write for one match.
func changedFields(before, after models.Transaction) map[string]any {
	fields := make(map[string]any)
	if before.Category != after.Category {
		fields["category"] = after.Category
	}
	if before.Exclude != after.Exclude {
		fields["exclude"] = after.Exclude
	}
	if before.Description != after.Description {
		fields["description"] = after.Description
	}
	if before.Counterparty != after.Counterparty {
		fields["counterparty"] = after.Counterparty
	}
	return fields
}
