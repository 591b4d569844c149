package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/cmd/registry/repository"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/logger"
)

// transferLockTTL bounds how long a crashed transfer can hold the fence.
const transferLockTTL = 10 * time.Second

// OwnershipStore is the persistence surface the transfer service needs
type OwnershipStore interface {
	Transfer(ctx context.Context, landID int64, currentOwner, newOwner string) (*repository.TransferResult, error)
	GetOwner(ctx context.Context, landID int64) (string, error)
}

// UserStore resolves wallet users for transfer validation
type UserStore interface {
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
}

// TransferLocker is the cross-instance claim fence. The DB transaction is
// the real atomicity boundary; the fence just cheapens the losing side of
// a double claim.
type TransferLocker interface {
	SetNX(ctx context.Context, key, value string, expiry time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// TransferPublisher emits ownership change events
type TransferPublisher interface {
	LandTransferred(ctx context.Context, ev events.LandTransferred) error
}

// TransferService moves parcel ownership between wallets
type TransferService struct {
	ownership OwnershipStore
	users     UserStore
	locker    TransferLocker
	publisher TransferPublisher
	log       *logger.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(ownership OwnershipStore, users UserStore, locker TransferLocker, publisher TransferPublisher, log *logger.Logger) *TransferService {
	return &TransferService{
		ownership: ownership,
		users:     users,
		locker:    locker,
		publisher: publisher,
		log:       log,
	}
}

// TransferRequest carries one ownership transfer
type TransferRequest struct {
	LandID       int64
	NewOwner     string
	CurrentOwner string
}

func (r *TransferRequest) validate() error {
	if r.LandID == 0 {
		return apperr.New(apperr.KindValidation, "Land ID is required")
	}
	if r.NewOwner == "" {
		return apperr.New(apperr.KindValidation, "New owner wallet address is required")
	}
	if r.CurrentOwner == "" {
		return apperr.New(apperr.KindValidation, "Current owner wallet address is required")
	}
	return nil
}

// Transfer moves ownership of a parcel. The repository owns the atomic
// unit; around it a short Redis lock keyed by land id fences concurrent
// transfers across instances so one of them fails fast instead of
// serializing on the row lock.
func (s *TransferService) Transfer(ctx context.Context, req *TransferRequest) (*repository.TransferResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	lockKey := "transfer:lock:" + strconv.FormatInt(req.LandID, 10)
	acquired, err := s.locker.SetNX(ctx, lockKey, req.NewOwner, transferLockTTL)
	if err != nil {
		// Redis being down degrades to DB-only serialization.
		s.log.Warn("transfer lock unavailable", "error", err, "land_id", req.LandID)
	} else if !acquired {
		return nil, apperr.New(apperr.KindConflict, "Another transfer for this land is in progress")
	} else {
		defer func() {
			if err := s.locker.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
				s.log.Warn("failed to release transfer lock", "error", err, "land_id", req.LandID)
			}
		}()
	}

	result, err := s.ownership.Transfer(ctx, req.LandID, req.CurrentOwner, req.NewOwner)
	if err != nil {
		return nil, err
	}

	s.log.Info("land transferred",
		"land_id", result.LandID,
		"from", result.PreviousOwner,
		"to", result.NewOwner,
		"transaction_id", result.TransactionID,
	)

	if err := s.publisher.LandTransferred(ctx, events.LandTransferred{
		LandID:        result.LandID,
		From:          result.PreviousOwner,
		To:            result.NewOwner,
		TransactionID: fmt.Sprintf("%d", result.TransactionID),
		TransferredAt: time.Now(),
	}); err != nil {
		s.log.Warn("failed to publish transfer event", "error", err, "land_id", result.LandID)
	}

	return result, nil
}

// Validate runs the transfer preconditions without mutating anything:
// the parcel must exist, the new owner must be a known user, a wallet
// cannot transfer to itself, and the new owner must not already hold the
// land.
func (s *TransferService) Validate(ctx context.Context, req *TransferRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	if req.CurrentOwner == req.NewOwner {
		return apperr.New(apperr.KindValidation, "Cannot transfer land to the current owner")
	}

	owner, err := s.ownership.GetOwner(ctx, req.LandID)
	if err != nil {
		return err
	}

	if owner == req.NewOwner {
		return apperr.New(apperr.KindValidation, "New owner already holds this land")
	}

	user, err := s.users.GetByWallet(ctx, req.NewOwner)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.KindNotFound, "New owner is not a registered user")
	}

	return nil
}
