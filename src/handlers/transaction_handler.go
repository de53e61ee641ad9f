package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	cache "github.com/pradyutnair/finance-sub003/src/db"
	sqldb "github.com/pradyutnair/finance-sub003/src/db/sql"
	"github.com/pradyutnair/finance-sub003/src/models"
)

// GetTransactions serves the user's cached transaction window, optionally
// narrowed by ?from, ?to (inclusive ISO dates) and ?excludeExcluded=true.
func GetTransactions(txnCache TransactionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		txns, err := txnCache.Get(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for user %s: %v", userID, err)
			http.Error(w, "failed to load transactions", http.StatusInternalServerError)
			return
		}

		filter := cache.TxnFilter{
			From:            r.URL.Query().Get("from"),
			To:              r.URL.Query().Get("to"),
			ExcludeExcluded: r.URL.Query().Get("excludeExcluded") == "true",
		}
		filtered := cache.FilterTransactions(txns, filter)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(filtered)
	}
}

// UpdateTransaction handles a manual category/exclude edit. A category change
// is also propagated to the user's other transactions that share the edited
// transaction's description or counterparty.
func UpdateTransaction(store TransactionStore, txnCache TransactionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		txnID := chi.URLParam(r, "transaction_id")

		var req struct {
			Category *string `json:"category"`
			Exclude  *bool   `json:"exclude"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Category == nil && req.Exclude == nil {
			http.Error(w, "nothing to update", http.StatusBadRequest)
			return
		}
		if req.Category != nil && *req.Category == "" {
			http.Error(w, "category cannot be empty", http.StatusBadRequest)
			return
		}

		txn, err := store.GetTransactionByID(r.Context(), userID, txnID)
		if errors.Is(err, sqldb.ErrTransactionNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to load transaction %s for user %s: %v", txnID, userID, err)
			http.Error(w, "failed to load transaction", http.StatusInternalServerError)
			return
		}

		fields := make(map[string]any)
		categoryChanged := false
		if req.Category != nil && *req.Category != txn.Category {
			fields["category"] = *req.Category
			txn.Category = *req.Category
			categoryChanged = true
		}
		if req.Exclude != nil && *req.Exclude != txn.Exclude {
			fields["exclude"] = *req.Exclude
			txn.Exclude = *req.Exclude
		}

		var propagated int64
		if len(fields) > 0 {
			if err := store.UpdateTransactionFields(r.Context(), userID, txnID, fields); err != nil {
				log.Printf("ERROR: Failed to update transaction %s for user %s: %v", txnID, userID, err)
				http.Error(w, "failed to update transaction", http.StatusInternalServerError)
				return
			}
			if categoryChanged {
				propagated, err = store.RecategorizeSimilar(r.Context(), userID, txnID, txn.Description, txn.Counterparty, txn.Category)
				if err != nil {
					// The primary edit already landed; report it and log the propagation failure.
					log.Printf("ERROR: Failed to recategorize similar transactions for user %s: %v", userID, err)
				} else if propagated > 0 {
					log.Printf("INFO: Recategorized %d similar transactions for user %s after editing %s", propagated, userID, txnID)
				}
			}
			txnCache.Invalidate(userID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Transaction *models.Transaction `json:"transaction"`
			Propagated  int64               `json:"propagated"`
		}{txn, propagated})
	}
}
