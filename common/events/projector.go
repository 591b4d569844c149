package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/asaase-aban/registry/common/cache"
	"github.com/asaase-aban/registry/common/logger"
	"github.com/asaase-aban/registry/common/queue"
)

// CacheKeyLandList is the cached parcel listing invalidated whenever a
// decision or transfer changes what the public listing should show.
const CacheKeyLandList = "lands:list"

// Projector consumes domain events in-process. It keeps read-side state
// (the listing cache) consistent with committed writes and produces an
// audit trail in the logs.
type Projector struct {
	cache cache.Cache
	log   *logger.Logger
}

// NewProjector creates a projector. cache may be nil when caching is
// disabled; invalidation is then a no-op.
func NewProjector(c cache.Cache, log *logger.Logger) *Projector {
	return &Projector{cache: c, log: log}
}

// Start subscribes to all registry topics. Each subscription runs on its
// own goroutine inside the queue and stops when ctx is cancelled.
func (p *Projector) Start(ctx context.Context, q queue.Queue) error {
	if err := q.Subscribe(ctx, TopicSubmissionReviewed, p.handleReviewed); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicSubmissionReviewed, err)
	}
	if err := q.Subscribe(ctx, TopicLandTransferred, p.handleTransferred); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicLandTransferred, err)
	}
	return nil
}

func (p *Projector) handleReviewed(ctx context.Context, key string, value []byte) error {
	var ev SubmissionReviewed
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("failed to unmarshal reviewed event: %w", err)
	}

	p.log.Info("submission reviewed",
		"submission_id", ev.SubmissionID,
		"status", ev.Status,
		"reviewed_by", ev.ReviewedBy,
		"land_id", ev.LandID,
	)

	// An approval materializes a land row, so the listing is stale.
	if ev.Status == "approved" {
		p.invalidateListing(ctx)
	}
	return nil
}

func (p *Projector) handleTransferred(ctx context.Context, key string, value []byte) error {
	var ev LandTransferred
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("failed to unmarshal transferred event: %w", err)
	}

	p.log.Info("land transferred",
		"land_id", ev.LandID,
		"from", ev.From,
		"to", ev.To,
		"transaction_id", ev.TransactionID,
	)

	p.invalidateListing(ctx)
	return nil
}

func (p *Projector) invalidateListing(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, CacheKeyLandList); err != nil {
		p.log.Warn("failed to invalidate listing cache", "error", err)
	}
}
