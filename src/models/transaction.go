package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to transactions the sync process could not classify.
const DefaultCategory = "Uncategorized"

// Transaction is the normalized shape of a bank transaction as persisted by the
// provider-sync functions. Amounts are signed: negative = expense, positive = income.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	AccountID    string          `json:"accountId"`
	BookingDate  string          `json:"bookingDate"` // ISO YYYY-MM-DD
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty"`
	Category     string          `json:"category"`
	Exclude      bool            `json:"exclude"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
