package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rollcall/internal/apperr"
	"rollcall/internal/store"
)

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repo.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. The unique constraint on username is the
// backstop for concurrent registrations; its violation maps to
// apperr.ErrDuplicateUsername.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Username, user.PasswordHash, user.Role.String(), user.Active, user.CreatedAt)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return apperr.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername returns the user or (nil, nil) when absent.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, active, created_at
		FROM users WHERE username = $1
	`, username)
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.Active, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	parsed, err := ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = parsed
	return &u, nil
}
