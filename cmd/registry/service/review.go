package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/logger"
	"github.com/asaase-aban/registry/common/validation"
)

// maxListLimit caps a single review queue page.
const maxListLimit = 100

// ReviewStore is the persistence surface the review service needs
type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	List(ctx context.Context, f models.SubmissionFilter) ([]*models.Submission, int, error)
	Review(ctx context.Context, id int64, status models.SubmissionStatus, adminNotes, reviewedBy string) (*models.Submission, error)
	Amend(ctx context.Context, id int64, description string, adminNotes *string) (*models.Submission, error)
}

// ReviewPublisher emits review decision events
type ReviewPublisher interface {
	SubmissionReviewed(ctx context.Context, ev events.SubmissionReviewed) error
}

// ReviewService drives the submission review queue and decisions
type ReviewService struct {
	repo       ReviewStore
	publisher  ReviewPublisher
	amendables *validation.AmendmentValidator
	log        *logger.Logger
}

// NewReviewService creates a new review service
func NewReviewService(repo ReviewStore, publisher ReviewPublisher, log *logger.Logger) *ReviewService {
	return &ReviewService{
		repo:      repo,
		publisher: publisher,
		// Only the free-text fields are patchable; everything else on a
		// submission is owned by intake or the decision path.
		amendables: validation.NewAmendmentValidator("/description", "/admin_notes"),
		log:        log,
	}
}

// ListRequest narrows the review queue listing
type ListRequest struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// ListResponse is one page of the review queue
type ListResponse struct {
	Submissions []*models.Submission
	Total       int
	Page        int
	Limit       int
	TotalPages  int
}

// List returns one page of the review queue. Total and totalPages come from
// the same filter predicate as the page itself.
func (s *ReviewService) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}
	if req.Limit > maxListLimit {
		req.Limit = maxListLimit
	}
	if req.Status != "" && !models.SubmissionStatus(req.Status).Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "Unknown status: %s", req.Status)
	}

	filter := models.SubmissionFilter{
		Status: models.SubmissionStatus(req.Status),
		Search: req.Search,
		Page:   req.Page,
		Limit:  req.Limit,
	}

	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := total / req.Limit
	if total%req.Limit != 0 {
		totalPages++
	}

	if subs == nil {
		subs = []*models.Submission{}
	}

	return &ListResponse{
		Submissions: subs,
		Total:       total,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalPages:  totalPages,
	}, nil
}

// Get retrieves a single submission
func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// Decide applies a review decision on behalf of reviewedBy. Checks run in
// order: the submission must exist, must still be pending, and only then is
// the decision value itself validated. The decision and any land
// materialization commit atomically in the repository; the event is
// published only after commit.
func (s *ReviewService) Decide(ctx context.Context, id int64, decision, adminNotes, reviewedBy string) (*models.Submission, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"Submission has already been %s", current.Status)
	}

	status := models.SubmissionStatus(decision)
	if !status.Decision() {
		return nil, apperr.Newf(apperr.KindValidation,
			"Decision must be approved or rejected, got: %s", decision)
	}

	// The repository re-checks pending under the transaction, so a racing
	// decision between the read above and here still loses cleanly.
	sub, err := s.repo.Review(ctx, id, status, adminNotes, reviewedBy)
	if err != nil {
		return nil, err
	}

	s.log.Info("submission reviewed",
		"submission_id", sub.ID,
		"status", sub.Status,
		"reviewed_by", reviewedBy,
	)

	if err := s.publisher.SubmissionReviewed(ctx, events.SubmissionReviewed{
		SubmissionID: sub.ID,
		Status:       string(sub.Status),
		ReviewedBy:   reviewedBy,
		ReviewedAt:   time.Now(),
	}); err != nil {
		// The decision is committed; a lost event only delays projections.
		s.log.Warn("failed to publish review event", "error", err, "submission_id", sub.ID)
	}

	return sub, nil
}

// amendDoc is the patchable projection of a submission
type amendDoc struct {
	Description string  `json:"description"`
	AdminNotes  *string `json:"admin_notes"`
}

// Amend applies an RFC 6902 patch to a pending submission. Only description
// and admin notes are patchable; everything else on the row is owned by
// intake or the decision path.
func (s *ReviewService) Amend(ctx context.Context, id int64, patchBytes []byte) (*models.Submission, error) {
	patch, err := jsonpatch.DecodePatch(patchBytes)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "Invalid JSON Patch document", err)
	}

	if err := s.amendables.Validate(patch); err != nil {
		return nil, apperr.New(apperr.KindValidation, err.Error())
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.StatusPending {
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"Submission has already been %s", sub.Status)
	}

	doc, err := json.Marshal(amendDoc{
		Description: sub.Description,
		AdminNotes:  sub.AdminNotes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	patched, err := patch.Apply(doc)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "Patch could not be applied", err)
	}

	var next amendDoc
	if err := json.Unmarshal(patched, &next); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "Patch produced an invalid document", err)
	}

	updated, err := s.repo.Amend(ctx, id, next.Description, next.AdminNotes)
	if err != nil {
		return nil, err
	}

	s.log.Info("submission amended", "submission_id", id, "ops", len(patch))

	return updated, nil
}
