package service

import (
	"context"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/logger"
)

// defaultAuditLimit caps how many audit rows one listing returns.
const defaultAuditLimit = 500

// AuditStore reads the ownership audit trail
type AuditStore interface {
	List(ctx context.Context, limit int) ([]*models.Transaction, error)
}

// TransactionService serves the ownership audit trail to admins
type TransactionService struct {
	repo AuditStore
	log  *logger.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo AuditStore, log *logger.Logger) *TransactionService {
	return &TransactionService{
		repo: repo,
		log:  log,
	}
}

// List returns audit rows, newest first
func (s *TransactionService) List(ctx context.Context) ([]*models.Transaction, error) {
	return s.repo.List(ctx, defaultAuditLimit)
}
