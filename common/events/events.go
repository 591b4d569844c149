package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/asaase-aban/registry/common/queue"
)

// Topics carrying registry domain events.
const (
	TopicSubmissionReviewed = "submission.reviewed"
	TopicLandTransferred    = "land.transferred"
)

// SubmissionReviewed is emitted after a review decision commits.
type SubmissionReviewed struct {
	SubmissionID int64     `json:"submission_id"`
	Status       string    `json:"status"`
	ReviewedBy   string    `json:"reviewed_by"`
	LandID       int64     `json:"land_id,omitempty"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// LandTransferred is emitted after an ownership change commits. For a
// first claim From is empty.
type LandTransferred struct {
	LandID        int64     `json:"land_id"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to"`
	TransactionID string    `json:"transaction_id"`
	TransferredAt time.Time `json:"transferred_at"`
}

// Publisher publishes domain events to the queue. Publishing is best-effort:
// the state change has already committed, so failures are surfaced to the
// caller for logging but must not roll anything back.
type Publisher struct {
	queue queue.Queue
}

// NewPublisher creates a publisher on top of q.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{queue: q}
}

// SubmissionReviewed publishes a review decision event keyed by submission id.
func (p *Publisher) SubmissionReviewed(ctx context.Context, ev SubmissionReviewed) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	key := strconv.FormatInt(ev.SubmissionID, 10)
	return p.queue.Publish(ctx, TopicSubmissionReviewed, key, payload)
}

// LandTransferred publishes an ownership change event keyed by land id.
func (p *Publisher) LandTransferred(ctx context.Context, ev LandTransferred) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	key := strconv.FormatInt(ev.LandID, 10)
	return p.queue.Publish(ctx, TopicLandTransferred, key, payload)
}
