package service

import (
	"context"
	"testing"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/logger"
)

// fakeReviewStore mimics the repository's race semantics: a decision only
// lands on a row that is still pending.
type fakeReviewStore struct {
	submissions map[int64]*models.Submission
	landsMade   int
}

func newFakeReviewStore(subs ...*models.Submission) *fakeReviewStore {
	store := &fakeReviewStore{submissions: make(map[int64]*models.Submission)}
	for _, sub := range subs {
		store.submissions[sub.ID] = sub
	}
	return store
}

func (f *fakeReviewStore) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	sub, ok := f.submissions[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Submission not found")
	}
	return sub, nil
}

func (f *fakeReviewStore) List(ctx context.Context, filter models.SubmissionFilter) ([]*models.Submission, int, error) {
	var matched []*models.Submission
	for _, sub := range f.submissions {
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		matched = append(matched, sub)
	}

	total := len(matched)
	offset := filter.Offset()
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeReviewStore) Review(ctx context.Context, id int64, status models.SubmissionStatus, adminNotes, reviewedBy string) (*models.Submission, error) {
	sub, ok := f.submissions[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Submission not found")
	}
	if sub.Status != models.StatusPending {
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"Submission has already been %s", sub.Status)
	}

	sub.Status = status
	sub.AdminNotes = &adminNotes
	sub.ReviewedBy = &reviewedBy
	if status == models.StatusApproved {
		f.landsMade++
	}
	return sub, nil
}

func (f *fakeReviewStore) Amend(ctx context.Context, id int64, description string, adminNotes *string) (*models.Submission, error) {
	sub, ok := f.submissions[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Submission not found")
	}
	if sub.Status != models.StatusPending {
		return nil, apperr.Newf(apperr.KindInvalidTransition,
			"Submission has already been %s", sub.Status)
	}
	sub.Description = description
	sub.AdminNotes = adminNotes
	return sub, nil
}

// fakeReviewPublisher records published events
type fakeReviewPublisher struct {
	published []events.SubmissionReviewed
}

func (f *fakeReviewPublisher) SubmissionReviewed(ctx context.Context, ev events.SubmissionReviewed) error {
	f.published = append(f.published, ev)
	return nil
}

func pendingSubmission(id int64) *models.Submission {
	return &models.Submission{
		ID:           id,
		Location:     "5.6,-0.2",
		DocumentPath: "land-doc-1-a.pdf",
		OwnerWallet:  "0xabc",
		Status:       models.StatusPending,
	}
}

func newReviewService(store *fakeReviewStore, pub *fakeReviewPublisher) *ReviewService {
	return NewReviewService(store, pub, logger.New("error", "text"))
}

func TestDecideApprove(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	pub := &fakeReviewPublisher{}
	svc := newReviewService(store, pub)

	sub, err := svc.Decide(context.Background(), 1, "approved", "looks valid", "0xadmin")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if sub.Status != models.StatusApproved {
		t.Errorf("status = %s, want approved", sub.Status)
	}
	if sub.ReviewedBy == nil || *sub.ReviewedBy != "0xadmin" {
		t.Error("reviewer must come from the authenticated admin")
	}
	if store.landsMade != 1 {
		t.Errorf("approval should materialize one land, got %d", store.landsMade)
	}
	if len(pub.published) != 1 || pub.published[0].Status != "approved" {
		t.Errorf("expected one approved event, got %+v", pub.published)
	}
}

func TestDecideReject(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	sub, err := svc.Decide(context.Background(), 1, "rejected", "boundary dispute", "0xadmin")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if sub.Status != models.StatusRejected {
		t.Errorf("status = %s, want rejected", sub.Status)
	}
	if store.landsMade != 0 {
		t.Error("rejection must not materialize a land")
	}
}

func TestDecideInvalidValue(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	for _, decision := range []string{"", "pending", "APPROVED", "maybe"} {
		_, err := svc.Decide(context.Background(), 1, decision, "", "0xadmin")
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Decide(%q) = %v, want validation error", decision, err)
		}
	}

	if store.submissions[1].Status != models.StatusPending {
		t.Error("invalid decision must leave the submission untouched")
	}
}

func TestDecideUnknownSubmission(t *testing.T) {
	svc := newReviewService(newFakeReviewStore(), &fakeReviewPublisher{})

	_, err := svc.Decide(context.Background(), 42, "approved", "", "0xadmin")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Decide(unknown) = %v, want not found", err)
	}
}

func TestDecideCheckOrder(t *testing.T) {
	// Existence and state are checked before the decision value, so a
	// doubly-invalid request reports the more specific failure.
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	_, err := svc.Decide(context.Background(), 42, "maybe", "", "0xadmin")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Decide(unknown, bad value) = %v, want not found", err)
	}

	if _, err := svc.Decide(context.Background(), 1, "approved", "", "0xadmin"); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	_, err = svc.Decide(context.Background(), 1, "maybe", "", "0xadmin")
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("Decide(decided, bad value) = %v, want invalid transition", err)
	}
}

func TestDecideTwice(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	pub := &fakeReviewPublisher{}
	svc := newReviewService(store, pub)

	if _, err := svc.Decide(context.Background(), 1, "approved", "", "0xadmin"); err != nil {
		t.Fatalf("first Decide failed: %v", err)
	}

	_, err := svc.Decide(context.Background(), 1, "rejected", "", "0xadmin")
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("second Decide = %v, want invalid transition", err)
	}

	if store.landsMade != 1 {
		t.Errorf("exactly one land should exist, got %d", store.landsMade)
	}
	if len(pub.published) != 1 {
		t.Errorf("the losing decision must not publish, got %d events", len(pub.published))
	}
}

func TestListPagination(t *testing.T) {
	store := newFakeReviewStore(
		pendingSubmission(1),
		pendingSubmission(2),
		pendingSubmission(3),
	)
	svc := newReviewService(store, &fakeReviewPublisher{})

	resp, err := svc.List(context.Background(), ListRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 3 || resp.TotalPages != 2 {
		t.Errorf("total = %d totalPages = %d, want 3 and 2", resp.Total, resp.TotalPages)
	}
	if len(resp.Submissions) != 2 {
		t.Errorf("page 1 has %d submissions, want 2", len(resp.Submissions))
	}

	// A page past the end is an empty result, not an error
	resp, err = svc.List(context.Background(), ListRequest{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("List past end failed: %v", err)
	}
	if len(resp.Submissions) != 0 {
		t.Errorf("page past end has %d submissions, want 0", len(resp.Submissions))
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3 regardless of page", resp.Total)
	}
}

func TestListClampsLimit(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	resp, err := svc.List(context.Background(), ListRequest{Page: 1, Limit: 1000000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Limit != maxListLimit {
		t.Errorf("limit = %d, want clamped to %d", resp.Limit, maxListLimit)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newReviewService(newFakeReviewStore(), &fakeReviewPublisher{})

	_, err := svc.List(context.Background(), ListRequest{Status: "bogus"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("List(bogus status) = %v, want validation error", err)
	}
}

func TestAmend(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	patch := []byte(`[
		{"op": "replace", "path": "/description", "value": "amended description"},
		{"op": "add", "path": "/admin_notes", "value": "verified against survey"}
	]`)

	sub, err := svc.Amend(context.Background(), 1, patch)
	if err != nil {
		t.Fatalf("Amend failed: %v", err)
	}

	if sub.Description != "amended description" {
		t.Errorf("description = %q, want the patched value", sub.Description)
	}
	if sub.AdminNotes == nil || *sub.AdminNotes != "verified against survey" {
		t.Error("admin notes should carry the patched value")
	}
}

func TestAmendRejectsForbiddenPaths(t *testing.T) {
	store := newFakeReviewStore(pendingSubmission(1))
	svc := newReviewService(store, &fakeReviewPublisher{})

	for _, path := range []string{"/status", "/owner_wallet", "/document_path", "/reviewed_by"} {
		patch := []byte(`[{"op": "replace", "path": "` + path + `", "value": "hijacked"}]`)
		_, err := svc.Amend(context.Background(), 1, patch)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Amend(%s) = %v, want validation error", path, err)
		}
	}
}

func TestAmendDecidedSubmission(t *testing.T) {
	sub := pendingSubmission(1)
	sub.Status = models.StatusApproved
	svc := newReviewService(newFakeReviewStore(sub), &fakeReviewPublisher{})

	patch := []byte(`[{"op": "replace", "path": "/description", "value": "too late"}]`)
	_, err := svc.Amend(context.Background(), 1, patch)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("Amend(decided) = %v, want invalid transition", err)
	}
}

func TestAmendInvalidPatch(t *testing.T) {
	svc := newReviewService(newFakeReviewStore(pendingSubmission(1)), &fakeReviewPublisher{})

	_, err := svc.Amend(context.Background(), 1, []byte(`{"not": "a patch"}`))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Amend(garbage) = %v, want validation error", err)
	}
}
