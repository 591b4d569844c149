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

const submissionColumns = `id, location, document_path, description, owner_wallet,
		status, created_at, updated_at, admin_notes, reviewed_by`

// SubmissionRepository handles database operations for land submissions
type SubmissionRepository struct {
	db *db.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *db.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new pending submission and fills in its generated fields
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO land_submissions (location, document_path, description, owner_wallet, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		sub.Location,
		sub.DocumentPath,
		sub.Description,
		sub.OwnerWallet,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by id
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM land_submissions
		WHERE id = $1
	`

	sub := &models.Submission{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.Location,
		&sub.DocumentPath,
		&sub.Description,
		&sub.OwnerWallet,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
		&sub.AdminNotes,
		&sub.ReviewedBy,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, "Submission not found")
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// List retrieves one page of submissions matching the filter, plus the total
// count over the same predicate. A page past the end yields an empty slice.
func (r *SubmissionRepository) List(ctx context.Context, f models.SubmissionFilter) ([]*models.Submission, int, error) {
	where, args := buildSubmissionWhere(f)

	countQuery := `SELECT COUNT(*) FROM land_submissions ` + where

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	pageArgs := append(args, f.Limit, f.Offset())
	query := fmt.Sprintf(`
		SELECT `+submissionColumns+`
		FROM land_submissions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// ListByOwner retrieves all pending submissions for one wallet, newest first
func (r *SubmissionRepository) ListByOwner(ctx context.Context, wallet string) ([]*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM land_submissions
		WHERE owner_wallet = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions by owner: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// Review applies a decision atomically. The UPDATE is guarded on
// status='pending' so concurrent reviewers race on the row itself: exactly
// one wins, the loser sees zero rows and gets InvalidTransition. On approval
// the land row is materialized inside the same transaction, so a failed
// insert rolls the decision back too.
func (r *SubmissionRepository) Review(ctx context.Context, id int64, status models.SubmissionStatus, adminNotes, reviewedBy string) (*models.Submission, error) {
	var sub *models.Submission

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE land_submissions
			SET status = $2, admin_notes = $3, reviewed_by = $4, updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + submissionColumns + `
		`

		sub = &models.Submission{}
		err := tx.QueryRow(ctx, query, id, string(status), adminNotes, reviewedBy).Scan(
			&sub.ID,
			&sub.Location,
			&sub.DocumentPath,
			&sub.Description,
			&sub.OwnerWallet,
			&sub.Status,
			&sub.CreatedAt,
			&sub.UpdatedAt,
			&sub.AdminNotes,
			&sub.ReviewedBy,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyReviewMiss(ctx, tx, id)
			}
			return fmt.Errorf("failed to update submission: %w", err)
		}

		if status == models.StatusApproved {
			insert := `
				INSERT INTO lands (location, document_path, owner_wallet)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.Exec(ctx, insert, sub.Location, sub.DocumentPath, sub.OwnerWallet); err != nil {
				return fmt.Errorf("failed to materialize land: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sub, nil
}

// classifyReviewMiss distinguishes "no such submission" from "already
// decided" when the guarded UPDATE matched nothing.
func (r *SubmissionRepository) classifyReviewMiss(ctx context.Context, tx pgx.Tx, id int64) error {
	var status models.SubmissionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM land_submissions WHERE id = $1`, id).Scan(&status)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.New(apperr.KindNotFound, "Submission not found")
		}
		return fmt.Errorf("failed to check submission status: %w", err)
	}

	return apperr.Newf(apperr.KindInvalidTransition,
		"Submission has already been %s", status)
}

// Amend updates the mutable fields of a still-pending submission. Same
// pending guard as Review: an amendment never touches a decided submission.
func (r *SubmissionRepository) Amend(ctx context.Context, id int64, description string, adminNotes *string) (*models.Submission, error) {
	var sub *models.Submission

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE land_submissions
			SET description = $2, admin_notes = $3, updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + submissionColumns + `
		`

		sub = &models.Submission{}
		err := tx.QueryRow(ctx, query, id, description, adminNotes).Scan(
			&sub.ID,
			&sub.Location,
			&sub.DocumentPath,
			&sub.Description,
			&sub.OwnerWallet,
			&sub.Status,
			&sub.CreatedAt,
			&sub.UpdatedAt,
			&sub.AdminNotes,
			&sub.ReviewedBy,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyReviewMiss(ctx, tx, id)
			}
			return fmt.Errorf("failed to amend submission: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return sub, nil
}

func scanSubmissions(rows pgx.Rows) ([]*models.Submission, error) {
	var subs []*models.Submission
	for rows.Next() {
		sub := &models.Submission{}
		err := rows.Scan(
			&sub.ID,
			&sub.Location,
			&sub.DocumentPath,
			&sub.Description,
			&sub.OwnerWallet,
			&sub.Status,
			&sub.CreatedAt,
			&sub.UpdatedAt,
			&sub.AdminNotes,
			&sub.ReviewedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}
