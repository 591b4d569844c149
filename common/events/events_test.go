package events

import (
	"context"
	"testing"
	"time"

	"github.com/asaase-aban/registry/common/logger"
	"github.com/asaase-aban/registry/common/queue"
)

// signalCache signals on Delete so tests can wait for projection
type signalCache struct {
	deleted chan string
}

func newSignalCache() *signalCache {
	return &signalCache{deleted: make(chan string, 10)}
}

func (c *signalCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *signalCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *signalCache) Delete(ctx context.Context, key string) error {
	c.deleted <- key
	return nil
}

func (c *signalCache) Close() error { return nil }

func waitForDelete(t *testing.T, c *signalCache) string {
	t.Helper()
	select {
	case key := <-c.deleted:
		return key
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cache invalidation")
		return ""
	}
}

func setupProjector(t *testing.T) (*Publisher, *signalCache) {
	t.Helper()

	log := logger.New("error", "text")
	q := queue.NewMemoryQueue(log)
	t.Cleanup(func() { q.Close() })

	cache := newSignalCache()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := NewProjector(cache, log).Start(ctx, q); err != nil {
		t.Fatalf("projector start failed: %v", err)
	}

	return NewPublisher(q), cache
}

func TestApprovalInvalidatesListing(t *testing.T) {
	pub, cache := setupProjector(t)

	err := pub.SubmissionReviewed(context.Background(), SubmissionReviewed{
		SubmissionID: 1,
		Status:       "approved",
		ReviewedBy:   "0xadmin",
		ReviewedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if key := waitForDelete(t, cache); key != CacheKeyLandList {
		t.Errorf("invalidated %q, want %q", key, CacheKeyLandList)
	}
}

func TestRejectionKeepsListing(t *testing.T) {
	pub, cache := setupProjector(t)

	err := pub.SubmissionReviewed(context.Background(), SubmissionReviewed{
		SubmissionID: 1,
		Status:       "rejected",
		ReviewedBy:   "0xadmin",
		ReviewedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// A rejection changes nothing the listing shows.
	select {
	case key := <-cache.deleted:
		t.Errorf("unexpected invalidation of %q after rejection", key)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTransferInvalidatesListing(t *testing.T) {
	pub, cache := setupProjector(t)

	err := pub.LandTransferred(context.Background(), LandTransferred{
		LandID:        7,
		From:          "0xalice",
		To:            "0xbob",
		TransactionID: "42",
		TransferredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if key := waitForDelete(t, cache); key != CacheKeyLandList {
		t.Errorf("invalidated %q, want %q", key, CacheKeyLandList)
	}
}
