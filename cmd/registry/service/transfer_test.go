package service

import (
	"context"
	"testing"
	"time"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/cmd/registry/repository"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/logger"
)

// fakeOwnershipStore mimics the repository's transfer semantics in memory
type fakeOwnershipStore struct {
	parcels map[int64]bool
	owners  map[int64]string
	nextTx  int64
}

func newFakeOwnershipStore() *fakeOwnershipStore {
	return &fakeOwnershipStore{
		parcels: make(map[int64]bool),
		owners:  make(map[int64]string),
		nextTx:  1,
	}
}

func (f *fakeOwnershipStore) Transfer(ctx context.Context, landID int64, currentOwner, newOwner string) (*repository.TransferResult, error) {
	holder, claimed := f.owners[landID]

	if !claimed {
		if !f.parcels[landID] {
			return nil, apperr.New(apperr.KindNotFound, "Land not found")
		}
		f.owners[landID] = newOwner
		result := &repository.TransferResult{LandID: landID, NewOwner: newOwner, TransactionID: f.nextTx}
		f.nextTx++
		return result, nil
	}

	if holder != currentOwner {
		return nil, apperr.New(apperr.KindForbidden, "Current owner does not hold this land")
	}

	f.owners[landID] = newOwner
	result := &repository.TransferResult{
		LandID:        landID,
		PreviousOwner: holder,
		NewOwner:      newOwner,
		TransactionID: f.nextTx,
	}
	f.nextTx++
	return result, nil
}

func (f *fakeOwnershipStore) GetOwner(ctx context.Context, landID int64) (string, error) {
	if owner, ok := f.owners[landID]; ok {
		return owner, nil
	}
	if !f.parcels[landID] {
		return "", apperr.New(apperr.KindNotFound, "Land not found")
	}
	return "", nil
}

// fakeUserStore resolves known wallets
type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	return f.users[wallet], nil
}

// fakeLocker is an in-memory TransferLocker
type fakeLocker struct {
	held map[string]bool
	fail error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (f *fakeLocker) SetNX(ctx context.Context, key, value string, expiry time.Duration) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLocker) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.held, key)
	}
	return nil
}

// fakeTransferPublisher records transfer events
type fakeTransferPublisher struct {
	published []events.LandTransferred
}

func (f *fakeTransferPublisher) LandTransferred(ctx context.Context, ev events.LandTransferred) error {
	f.published = append(f.published, ev)
	return nil
}

func newTransferService(ownership *fakeOwnershipStore, users *fakeUserStore, locker *fakeLocker, pub *fakeTransferPublisher) *TransferService {
	if users == nil {
		users = &fakeUserStore{users: make(map[string]*models.User)}
	}
	return NewTransferService(ownership, users, locker, pub, logger.New("error", "text"))
}

func TestTransfer(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true
	ownership.owners[7] = "0xalice"

	locker := newFakeLocker()
	pub := &fakeTransferPublisher{}
	svc := newTransferService(ownership, nil, locker, pub)

	result, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       7,
		CurrentOwner: "0xalice",
		NewOwner:     "0xbob",
	})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if result.PreviousOwner != "0xalice" || result.NewOwner != "0xbob" {
		t.Errorf("result = %+v, want alice -> bob", result)
	}
	if ownership.owners[7] != "0xbob" {
		t.Errorf("owner = %s, want 0xbob", ownership.owners[7])
	}
	if result.TransactionID == 0 {
		t.Error("a committed transfer must carry an audit transaction id")
	}
	if len(pub.published) != 1 || pub.published[0].To != "0xbob" {
		t.Errorf("expected one transfer event to 0xbob, got %+v", pub.published)
	}
	if len(locker.held) != 0 {
		t.Error("transfer lock must be released")
	}
}

func TestTransferClaimsUnownedParcel(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true

	svc := newTransferService(ownership, nil, newFakeLocker(), &fakeTransferPublisher{})

	result, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       7,
		CurrentOwner: "0xseller",
		NewOwner:     "0xbob",
	})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if result.PreviousOwner != "" {
		t.Errorf("first claim should have no previous owner, got %q", result.PreviousOwner)
	}
	if ownership.owners[7] != "0xbob" {
		t.Errorf("owner = %s, want 0xbob", ownership.owners[7])
	}
}

func TestTransferRequiredFields(t *testing.T) {
	svc := newTransferService(newFakeOwnershipStore(), nil, newFakeLocker(), &fakeTransferPublisher{})

	cases := []*TransferRequest{
		{NewOwner: "0xbob", CurrentOwner: "0xalice"},
		{LandID: 7, CurrentOwner: "0xalice"},
		{LandID: 7, NewOwner: "0xbob"},
	}

	for i, req := range cases {
		if _, err := svc.Transfer(context.Background(), req); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("case %d: Transfer = %v, want validation error", i, err)
		}
	}
}

func TestTransferUnknownLand(t *testing.T) {
	svc := newTransferService(newFakeOwnershipStore(), nil, newFakeLocker(), &fakeTransferPublisher{})

	_, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       99,
		CurrentOwner: "0xalice",
		NewOwner:     "0xbob",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Transfer(unknown land) = %v, want not found", err)
	}
}

func TestTransferWrongHolder(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true
	ownership.owners[7] = "0xalice"

	pub := &fakeTransferPublisher{}
	svc := newTransferService(ownership, nil, newFakeLocker(), pub)

	_, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       7,
		CurrentOwner: "0xmallory",
		NewOwner:     "0xbob",
	})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("Transfer(wrong holder) = %v, want forbidden", err)
	}
	if ownership.owners[7] != "0xalice" {
		t.Error("a rejected transfer must not change ownership")
	}
	if len(pub.published) != 0 {
		t.Error("a rejected transfer must not publish an event")
	}
}

func TestTransferLockContention(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true
	ownership.owners[7] = "0xalice"

	locker := newFakeLocker()
	locker.held["transfer:lock:7"] = true // another instance is mid-transfer

	svc := newTransferService(ownership, nil, locker, &fakeTransferPublisher{})

	_, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       7,
		CurrentOwner: "0xalice",
		NewOwner:     "0xbob",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Transfer(contended) = %v, want conflict", err)
	}
	if ownership.owners[7] != "0xalice" {
		t.Error("contended transfer must not reach the store")
	}
}

func TestTransferDegradesWithoutRedis(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true
	ownership.owners[7] = "0xalice"

	locker := newFakeLocker()
	locker.fail = context.DeadlineExceeded // redis down

	svc := newTransferService(ownership, nil, locker, &fakeTransferPublisher{})

	// The DB transaction is the real boundary; a dead fence must not block
	// transfers.
	if _, err := svc.Transfer(context.Background(), &TransferRequest{
		LandID:       7,
		CurrentOwner: "0xalice",
		NewOwner:     "0xbob",
	}); err != nil {
		t.Fatalf("Transfer without redis failed: %v", err)
	}
}

func TestValidate(t *testing.T) {
	ownership := newFakeOwnershipStore()
	ownership.parcels[7] = true
	ownership.owners[7] = "0xalice"

	users := &fakeUserStore{users: map[string]*models.User{
		"0xbob": {BlockchainID: "0xbob"},
	}}
	svc := newTransferService(ownership, users, newFakeLocker(), &fakeTransferPublisher{})

	ok := &TransferRequest{LandID: 7, CurrentOwner: "0xalice", NewOwner: "0xbob"}
	if err := svc.Validate(context.Background(), ok); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// Self transfer
	self := &TransferRequest{LandID: 7, CurrentOwner: "0xalice", NewOwner: "0xalice"}
	if err := svc.Validate(context.Background(), self); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Validate(self) = %v, want validation error", err)
	}

	// New owner already holds the land
	users.users["0xalice"] = &models.User{BlockchainID: "0xalice"}
	held := &TransferRequest{LandID: 7, CurrentOwner: "0xbob", NewOwner: "0xalice"}
	if err := svc.Validate(context.Background(), held); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Validate(already owner) = %v, want validation error", err)
	}

	// Unknown new owner
	unknown := &TransferRequest{LandID: 7, CurrentOwner: "0xalice", NewOwner: "0xnobody"}
	if err := svc.Validate(context.Background(), unknown); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Validate(unknown owner) = %v, want not found", err)
	}

	// Unknown land
	noLand := &TransferRequest{LandID: 99, CurrentOwner: "0xalice", NewOwner: "0xbob"}
	if err := svc.Validate(context.Background(), noLand); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Validate(unknown land) = %v, want not found", err)
	}
}
