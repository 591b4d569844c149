package service

import (
	"context"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/logger"
)

// UserAccountStore is the persistence surface the user service needs
type UserAccountStore interface {
	GetOrCreate(ctx context.Context, wallet string) (*models.User, error)
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// UserService handles wallet-identified accounts
type UserService struct {
	repo UserAccountStore
	log  *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo UserAccountStore, log *logger.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Lookup returns the user for a wallet, registering a member-role account
// on first contact
func (s *UserService) Lookup(ctx context.Context, wallet string) (*models.User, error) {
	if wallet == "" {
		return nil, apperr.New(apperr.KindValidation, "Wallet address is required")
	}
	return s.repo.GetOrCreate(ctx, wallet)
}

// List returns all registered users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// IsAdmin reports whether a wallet has the admin role. Unknown wallets are
// not admins; they are not auto-created here so probing admin routes leaves
// no trace in users.
func (s *UserService) IsAdmin(ctx context.Context, wallet string) (bool, error) {
	user, err := s.repo.GetByWallet(ctx, wallet)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin(), nil
}
