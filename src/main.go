package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/pradyutnair/finance-sub003/src/api"
	"github.com/pradyutnair/finance-sub003/src/config"
	"github.com/pradyutnair/finance-sub003/src/db"
	sqldb "github.com/pradyutnair/finance-sub003/src/db/sql"
	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/pradyutnair/finance-sub003/src/rules"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	store := sqldb.NewStore(pool)

	// Per-user TTL cache over the trailing transaction window.
	txnCache := db.NewTxnCache(cfg.CacheTTL, func(ctx context.Context, userID string) ([]models.Transaction, error) {
		since := time.Now().AddDate(0, 0, -cfg.CacheWindowDays).Format("2006-01-02")
		return store.ListUserTransactions(ctx, userID, since)
	})

	applier := rules.NewApplier(store, txnCache, store)

	router := api.NewRouter(api.Deps{
		Rules:          store,
		Transactions:   store,
		Users:          store,
		Cache:          txnCache,
		Applier:        applier,
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
