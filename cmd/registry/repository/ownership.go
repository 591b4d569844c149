package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/db"
)

// OwnershipRepository handles parcel ownership: the user_land link table,
// the claim path, and the transfer path
type OwnershipRepository struct {
	db *db.DB
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(db *db.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// TransferResult describes a committed ownership change
type TransferResult struct {
	LandID        int64
	PreviousOwner string // empty on first claim
	NewOwner      string
	TransactionID int64
}

// Transfer moves parcel ownership to newOwner inside one DB transaction:
// lock the ownership row, verify the holder, upsert the new owner's user
// row, mutate ownership, append the audit row. A parcel never claimed takes
// the claim path instead, racing on the user_land UNIQUE(land_id).
func (r *OwnershipRepository) Transfer(ctx context.Context, landID int64, currentOwner, newOwner string) (*TransferResult, error) {
	result := &TransferResult{LandID: landID, NewOwner: newOwner}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var holder string
		err := tx.QueryRow(ctx,
			`SELECT blockchain_id FROM user_land WHERE land_id = $1 FOR UPDATE`,
			landID,
		).Scan(&holder)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Unclaimed: verify the parcel exists, then claim it.
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM parcels WHERE id = $1)`, landID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check parcel existence: %w", err)
			}
			if !exists {
				return apperr.New(apperr.KindNotFound, "Land not found")
			}

			if err := upsertUser(ctx, tx, newOwner); err != nil {
				return err
			}

			tag, err := tx.Exec(ctx,
				`INSERT INTO user_land (land_id, blockchain_id)
				 VALUES ($1, $2)
				 ON CONFLICT (land_id) DO NOTHING`,
				landID, newOwner,
			)
			if err != nil {
				return fmt.Errorf("failed to claim land: %w", err)
			}
			if tag.RowsAffected() == 0 {
				// Another transaction claimed it between our lock attempt
				// and the insert.
				return apperr.New(apperr.KindConflict, "Land was claimed by another transfer")
			}

			result.TransactionID, err = appendTransaction(ctx, tx,
				models.TransactionClaim, landID, currentOwner, newOwner)
			return err

		case err != nil:
			return fmt.Errorf("failed to lock ownership row: %w", err)
		}

		if holder != currentOwner {
			return apperr.New(apperr.KindForbidden, "Current owner does not hold this land")
		}

		if err := upsertUser(ctx, tx, newOwner); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE user_land SET blockchain_id = $2 WHERE land_id = $1`,
			landID, newOwner,
		); err != nil {
			return fmt.Errorf("failed to update ownership: %w", err)
		}

		result.PreviousOwner = holder
		result.TransactionID, err = appendTransaction(ctx, tx,
			models.TransactionTransfer, landID, currentOwner, newOwner)
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetOwner returns the current owner of a parcel, or "" when unclaimed.
// NotFound means the parcel itself does not exist.
func (r *OwnershipRepository) GetOwner(ctx context.Context, landID int64) (string, error) {
	var owner string
	err := r.db.QueryRow(ctx,
		`SELECT blockchain_id FROM user_land WHERE land_id = $1`, landID,
	).Scan(&owner)

	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to get owner: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parcels WHERE id = $1)`, landID,
	).Scan(&exists); err != nil {
		return "", fmt.Errorf("failed to check parcel existence: %w", err)
	}
	if !exists {
		return "", apperr.New(apperr.KindNotFound, "Land not found")
	}

	return "", nil
}

func upsertUser(ctx context.Context, tx pgx.Tx, wallet string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO users (blockchain_id, user_role)
		 VALUES ($1, 0)
		 ON CONFLICT (blockchain_id) DO NOTHING`,
		wallet,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func appendTransaction(ctx context.Context, tx pgx.Tx, txType string, landID int64, initiator, recipient string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO transactions (type, land_id, initiator, recipient)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		txType, landID, initiator, recipient,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	return id, nil
}
