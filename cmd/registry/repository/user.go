package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/db"
)

// UserRepository handles database operations for wallet-identified users
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *db.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate returns the user for a wallet, creating a member-role row on
// first contact. The upsert makes concurrent first lookups converge on one
// row.
func (r *UserRepository) GetOrCreate(ctx context.Context, wallet string) (*models.User, error) {
	query := `
		INSERT INTO users (blockchain_id, user_role)
		VALUES ($1, 0)
		ON CONFLICT (blockchain_id) DO UPDATE SET blockchain_id = EXCLUDED.blockchain_id
		RETURNING blockchain_id, user_role, created_at
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, wallet).Scan(
		&user.BlockchainID,
		&user.UserRole,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	return user, nil
}

// GetByWallet retrieves a user without creating one
func (r *UserRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	query := `
		SELECT blockchain_id, user_role, created_at
		FROM users
		WHERE blockchain_id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, wallet).Scan(
		&user.BlockchainID,
		&user.UserRole,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT blockchain_id, user_role, created_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.BlockchainID, &user.UserRole, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
