package db

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pradyutnair/finance-sub003/src/models"
)

// LoadFunc fetches a user's trailing transaction window from the backing store.
type LoadFunc func(ctx context.Context, userID string) ([]models.Transaction, error)

type cacheEntry struct {
	transactions []models.Transaction
	loadedAt     time.Time
}

// TxnCache is a per-user, process-local TTL cache of each user's trailing
// transaction window. It is not shared across replicas; correctness relies on
// Invalidate being called after every write that can change a cached window.
// Keys are tracked alongside ristretto so InvalidateAll can clear every user.
type TxnCache struct {
	cache *ristretto.Cache[string, cacheEntry]
	ttl   time.Duration
	load  LoadFunc
	now   func() time.Time

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewTxnCache builds the cache. Entries expire ttl after load; expired or
// absent entries trigger a reload via load.
func NewTxnCache(ttl time.Duration, load LoadFunc) *TxnCache {
	cache, err := ristretto.NewCache(&ristretto.Config[string, cacheEntry]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize transaction cache: %v", err)
	}
	return &TxnCache{
		cache: cache,
		ttl:   ttl,
		load:  load,
		now:   time.Now,
		keys:  make(map[string]struct{}),
	}
}

// Get returns the user's cached window, reloading from the backing store when
// the entry is absent or older than the TTL.
func (c *TxnCache) Get(ctx context.Context, userID string) ([]models.Transaction, error) {
	if entry, ok := c.cache.Get(userID); ok && c.now().Sub(entry.loadedAt) < c.ttl {
		return entry.transactions, nil
	}

	txns, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keys[userID] = struct{}{}
	c.mu.Unlock()
	c.cache.Set(userID, cacheEntry{transactions: txns, loadedAt: c.now()}, 1)
	// Set is buffered; wait so the next Get observes the entry.
	c.cache.Wait()
	return txns, nil
}

// Invalidate drops the user's entry so the next Get reloads from the store.
// Must be called after any write that could change the cached window.
func (c *TxnCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.keys, userID)
	c.mu.Unlock()
	c.cache.Del(userID)
}

// InvalidateAll clears every user's entry.
func (c *TxnCache) InvalidateAll() {
	c.mu.Lock()
	for key := range c.keys {
		c.cache.Del(key)
	}
	c.keys = make(map[string]struct{})
	c.mu.Unlock()
}

// TxnFilter narrows a transaction window. From and To are inclusive ISO
// YYYY-MM-DD bounds; empty bounds are open.
type TxnFilter struct {
	From            string
	To              string
	ExcludeExcluded bool
}

// FilterTransactions is pure; it never touches the cache.
func FilterTransactions(txns []models.Transaction, f TxnFilter) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.From != "" && t.BookingDate < f.From {
			continue
		}
		if f.To != "" && t.BookingDate > f.To {
			continue
		}
		if f.ExcludeExcluded && t.Exclude {
			continue
		}
		out = append(out, t)
	}
	return out
}
