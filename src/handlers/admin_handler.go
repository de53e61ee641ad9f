package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ClearCache is an operational-debugging surface: it drops the transaction
// cache for one user or for everyone.
func ClearCache(txnCache TransactionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheName := chi.URLParam(r, "cache_name")
		switch cacheName {
		case "transactions", "all":
			txnCache.InvalidateAll()
			log.Printf("INFO: Cleared all transaction caches (scope %s)", cacheName)
		default:
			http.Error(w, "unknown cache name", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cache cleared"})
	}
}
