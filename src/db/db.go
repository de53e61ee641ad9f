package db

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies connectivity. The ping is retried a
// few times so the server survives the database coming up slightly later
// (compose startup ordering). Request-path store operations are never retried.
func Connect(url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		return nil, err
	}

	err = retry.Do(
		func() error {
			return pool.Ping(context.Background())
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
