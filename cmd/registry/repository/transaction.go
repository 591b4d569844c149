package repository

import (
	"context"
	"fmt"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/db"
)

// TransactionRepository reads the append-only ownership audit trail.
// Writes happen inside OwnershipRepository.Transfer so they share the
// mutation's transaction.
type TransactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *db.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// List retrieves audit rows, newest first
func (r *TransactionRepository) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, type, land_id, initiator, recipient, timestamp
		FROM transactions
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		err := rows.Scan(
			&t.ID,
			&t.Type,
			&t.LandID,
			&t.Initiator,
			&t.Recipient,
			&t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}
