package service

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/logger"
	"github.com/asaase-aban/registry/common/policy"
)

// SubmissionStore is the persistence surface the intake service needs
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	ListByOwner(ctx context.Context, wallet string) ([]*models.Submission, error)
}

// DocumentSaver stores uploaded documents and returns the generated filename
type DocumentSaver interface {
	Save(originalName string, size int64, src io.Reader) (string, error)
}

// SubmissionService handles land registration intake
type SubmissionService struct {
	repo       SubmissionStore
	docs       DocumentSaver
	policy     *policy.Evaluator
	intakeRule string
	log        *logger.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(repo SubmissionStore, docs DocumentSaver, evaluator *policy.Evaluator, intakeRule string, log *logger.Logger) *SubmissionService {
	return &SubmissionService{
		repo:       repo,
		docs:       docs,
		policy:     evaluator,
		intakeRule: intakeRule,
		log:        log,
	}
}

// RegisterRequest carries one land registration submission
type RegisterRequest struct {
	Location    string
	Description string
	Owner       string

	// Uploaded document
	DocumentName string
	DocumentSize int64
	Document     io.Reader
}

// Register validates and stores a new submission. The document is written
// before the DB insert; a crash between the two leaks a file but never a
// half-registered submission.
func (s *SubmissionService) Register(ctx context.Context, req *RegisterRequest) (*models.Submission, error) {
	if req.Location == "" {
		return nil, apperr.New(apperr.KindValidation, "Location is required")
	}
	if req.Owner == "" {
		return nil, apperr.New(apperr.KindValidation, "Owner wallet address is required")
	}
	if req.Document == nil || req.DocumentName == "" {
		return nil, apperr.New(apperr.KindValidation, "Land document is required")
	}

	if err := s.screen(req); err != nil {
		return nil, err
	}

	filename, err := s.docs.Save(req.DocumentName, req.DocumentSize, req.Document)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		Location:     req.Location,
		DocumentPath: filename,
		Description:  req.Description,
		OwnerWallet:  req.Owner,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("submission registered",
		"submission_id", sub.ID,
		"owner", sub.OwnerWallet,
		"document", filename,
	)

	return sub, nil
}

// screen applies the configured intake rule when the location carries
// parseable coordinates. Locations that are not "lat,lon" skip screening;
// a malformed coordinate pair is rejected outright.
func (s *SubmissionService) screen(req *RegisterRequest) error {
	lat, lon, ok, err := parseCoordinates(req.Location)
	if err != nil {
		return apperr.New(apperr.KindValidation, "Location coordinates could not be parsed")
	}
	if !ok {
		return nil
	}

	passed, err := s.policy.Evaluate(s.intakeRule, policy.Input{
		Lat:         lat,
		Lon:         lon,
		Description: req.Description,
		Owner:       req.Owner,
	})
	if err != nil {
		s.log.Error("intake rule evaluation failed", "error", err)
		return apperr.Wrap(apperr.KindInternal, "intake rule evaluation failed", err)
	}

	if !passed {
		s.log.Warn("submission failed intake screening",
			"owner", req.Owner, "lat", lat, "lon", lon)
		return apperr.New(apperr.KindValidation, "Location is outside the registrable area")
	}

	return nil
}

// GetSubmission retrieves one submission
func (s *SubmissionService) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// PendingByOwner retrieves a wallet's pending submissions, newest first
func (s *SubmissionService) PendingByOwner(ctx context.Context, wallet string) ([]*models.Submission, error) {
	if wallet == "" {
		return nil, apperr.New(apperr.KindValidation, "Wallet address is required")
	}
	return s.repo.ListByOwner(ctx, wallet)
}

// parseCoordinates reads a "lat,lon" location. ok is false when the string
// does not look like a coordinate pair at all; err is set when it does but
// a component fails to parse.
func parseCoordinates(location string) (lat, lon float64, ok bool, err error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, false, nil
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		// Something like "Accra, Ghana" is a place name, not coordinates.
		if latErr != nil && lonErr != nil {
			return 0, 0, false, nil
		}
		return 0, 0, false, apperr.New(apperr.KindValidation, "invalid coordinate pair")
	}

	return lat, lon, true, nil
}
