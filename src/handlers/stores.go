package handlers

import (
	"context"

	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/pradyutnair/finance-sub003/src/rules"
)

// The handler constructors take these narrow interfaces instead of a pgx pool
// so route behavior is testable against fakes.

type RuleStore interface {
	CreateTransactionRule(ctx context.Context, rule *models.TransactionRule) (*models.TransactionRule, error)
	GetTransactionRuleByID(ctx context.Context, userID, ruleID string) (*models.TransactionRule, error)
	ListTransactionRules(ctx context.Context, userID string) ([]models.TransactionRule, error)
	UpdateTransactionRule(ctx context.Context, userID, ruleID string, patch models.UpdateRuleRequest) (*models.TransactionRule, error)
	DeleteTransactionRule(ctx context.Context, userID, ruleID string) error
}

type TransactionStore interface {
	GetTransactionByID(ctx context.Context, userID, txnID string) (*models.Transaction, error)
	UpdateTransactionFields(ctx context.Context, userID, txnID string, fields map[string]any) error
	RecategorizeSimilar(ctx context.Context, userID, txnID, description, counterparty, category string) (int64, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type TransactionCache interface {
	Get(ctx context.Context, userID string) ([]models.Transaction, error)
	Invalidate(userID string)
	InvalidateAll()
}

type RuleApplier interface {
	ApplyRule(ctx context.Context, userID, ruleID string, opts rules.ApplyOptions) (*rules.ApplyResult, error)
}
