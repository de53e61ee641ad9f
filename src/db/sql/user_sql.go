package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pradyutnair/finance-sub003/src/models"
)

var ErrUserNotFound = errors.New("user not found")

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, email, password, super_admin, created_at
	`
	var u models.User
	err := s.Pool.QueryRow(ctx, query, uuid.NewString(), email, passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SuperAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, super_admin, created_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := s.Pool.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SuperAdmin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
