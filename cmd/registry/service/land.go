package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/cmd/registry/repository"
	"github.com/asaase-aban/registry/common/cache"
	"github.com/asaase-aban/registry/common/events"
	"github.com/asaase-aban/registry/common/logger"
)

// ParcelStore is the persistence surface the listing service needs
type ParcelStore interface {
	ListLands(ctx context.Context) ([]*models.Land, error)
	ListLandsByOwner(ctx context.Context, wallet string) ([]*models.Land, error)
	ListParcels(ctx context.Context) ([]*models.Parcel, error)
	ListParcelsByOwner(ctx context.Context, wallet string) ([]*models.Parcel, error)
}

// LandService serves land and parcel listings. The full parcel listing is
// cached; the projector invalidates it when a decision or transfer commits.
type LandService struct {
	repo     ParcelStore
	cache    cache.Cache // nil when caching is disabled
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewLandService creates a new land listing service. c may be nil when
// caching is disabled.
func NewLandService(repo ParcelStore, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *LandService {
	return &LandService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// AllParcels lists every surveyed parcel with geometry, from cache when
// fresh
func (s *LandService) AllParcels(ctx context.Context) ([]*models.Parcel, error) {
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, events.CacheKeyLandList); err == nil && ok {
			var parcels []*models.Parcel
			if err := json.Unmarshal(cached, &parcels); err == nil {
				return parcels, nil
			}
			// A corrupt cache entry falls through to the DB.
			s.log.Warn("discarding unreadable parcel cache entry")
		}
	}

	parcels, err := s.repo.ListParcels(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(parcels); err == nil {
			if err := s.cache.Set(ctx, events.CacheKeyLandList, payload, s.cacheTTL); err != nil {
				s.log.Warn("failed to cache parcel listing", "error", err)
			}
		}
	}

	return parcels, nil
}

// ParcelsByOwner lists the parcels a wallet currently holds
func (s *LandService) ParcelsByOwner(ctx context.Context, wallet string) ([]*models.Parcel, error) {
	return s.repo.ListParcelsByOwner(ctx, wallet)
}

// RegisteredLands lists lands materialized from approved submissions
func (s *LandService) RegisteredLands(ctx context.Context) ([]*models.Land, error) {
	return s.repo.ListLands(ctx)
}

// RegisteredLandsByOwner lists a wallet's registered lands
func (s *LandService) RegisteredLandsByOwner(ctx context.Context, wallet string) ([]*models.Land, error) {
	return s.repo.ListLandsByOwner(ctx, wallet)
}

var _ ParcelStore = (*repository.LandRepository)(nil)
