package db

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/pradyutnair/finance-sub003/src/models"
)

// ErrTransactionNotFound is returned when an update targets a transaction id
// the caller does not own (or that does not exist).
var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `id, user_id, account_id, booking_date, amount, currency, description, counterparty, category, exclude, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.BookingDate, &t.Amount,
		&t.Currency, &t.Description, &t.Counterparty, &t.Category, &t.Exclude,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListUserTransactions returns the user's transactions booked on or after
// since (ISO YYYY-MM-DD), newest first. This is the cache's load path.
func (s *Store) ListUserTransactions(ctx context.Context, userID, since string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND booking_date >= $2
		ORDER BY booking_date DESC, id
	`
	rows, err := s.Pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (s *Store) GetTransactionByID(ctx context.Context, userID, txnID string) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	t, err := scanTransaction(s.Pool.QueryRow(ctx, query, txnID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// updatableColumns are the only transaction fields rule application and manual
// edits may touch.
var updatableColumns = map[string]bool{
	"category":     true,
	"exclude":      true,
	"description":  true,
	"counterparty": true,
}

// UpdateTransactionFields writes only the given columns for one transaction,
// ownership-checked through the user_id predicate.
func (s *Store) UpdateTransactionFields(ctx context.Context, userID, txnID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	// Sorted for a deterministic statement; pgx caches prepared statements by SQL.
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !updatableColumns[name] {
			return fmt.Errorf("field %q is not updatable", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	query := "UPDATE transactions SET "
	args := make([]any, 0, len(names)+2)
	for i, name := range names {
		query += fmt.Sprintf("%s = $%d, ", name, i+1)
		args = append(args, fields[name])
	}
	query += fmt.Sprintf("updated_at = NOW() WHERE id = $%d AND user_id = $%d", len(names)+1, len(names)+2)
	args = append(args, txnID, userID)

	cmd, err := s.Pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// RecategorizeSimilar retroactively applies a category to the user's other
// transactions sharing the edited transaction's description or counterparty.
// Empty description/counterparty values are not treated as similar.
func (s *Store) RecategorizeSimilar(ctx context.Context, userID, txnID, description, counterparty, category string) (int64, error) {
	query := `
		UPDATE transactions
		SET category = $1, updated_at = NOW()
		WHERE user_id = $2 AND id <> $3
		  AND (($4 <> '' AND description = $4) OR ($5 <> '' AND counterparty = $5))
	`
	cmd, err := s.Pool.Exec(ctx, query, category, userID, txnID, description, counterparty)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
