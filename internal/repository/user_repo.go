package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"millionaire/internal/database"
	"millionaire/internal/models"

	"github.com/shopspring/decimal"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user with an empty balance
func (r *UserRepository) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	query := "INSERT INTO users (name, email, balance) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(ctx, query, name, email, decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	now := time.Now()
	return &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, balance, created_at, updated_at
		FROM users
		WHERE id = ?
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CreditBalance adds amount to the user's balance using exec, which may be a transaction
func (r *UserRepository) CreditBalance(ctx context.Context, exec database.DBTX, userID int64, amount decimal.Decimal) error {
	query := "UPDATE users SET balance = balance + ?, updated_at = ? WHERE id = ?"
	result, err := exec.ExecContext(ctx, query, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
