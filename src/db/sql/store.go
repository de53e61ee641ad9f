package db

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements rule, transaction, and user persistence on Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}
