package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asaase-aban/registry/cmd/registry/models"
	"github.com/asaase-aban/registry/common/db"
	"github.com/asaase-aban/registry/common/logger"
)

// LandRepository handles database operations for registered lands and the
// surveyed parcel dataset
type LandRepository struct {
	db  *db.DB
	log *logger.Logger
}

// NewLandRepository creates a new land repository
func NewLandRepository(db *db.DB, log *logger.Logger) *LandRepository {
	return &LandRepository{db: db, log: log}
}

// ListLands retrieves all registered lands, newest first
func (r *LandRepository) ListLands(ctx context.Context) ([]*models.Land, error) {
	query := `
		SELECT id, location, document_path, owner_wallet, created_at, updated_at
		FROM lands
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lands: %w", err)
	}
	defer rows.Close()

	var lands []*models.Land
	for rows.Next() {
		land := &models.Land{}
		err := rows.Scan(
			&land.ID,
			&land.Location,
			&land.DocumentPath,
			&land.OwnerWallet,
			&land.CreatedAt,
			&land.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan land: %w", err)
		}
		lands = append(lands, land)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lands: %w", err)
	}

	return lands, nil
}

// ListLandsByOwner retrieves registered lands owned by one wallet
func (r *LandRepository) ListLandsByOwner(ctx context.Context, wallet string) ([]*models.Land, error) {
	query := `
		SELECT id, location, document_path, owner_wallet, created_at, updated_at
		FROM lands
		WHERE owner_wallet = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to list lands by owner: %w", err)
	}
	defer rows.Close()

	var lands []*models.Land
	for rows.Next() {
		land := &models.Land{}
		err := rows.Scan(
			&land.ID,
			&land.Location,
			&land.DocumentPath,
			&land.OwnerWallet,
			&land.CreatedAt,
			&land.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan land: %w", err)
		}
		lands = append(lands, land)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lands: %w", err)
	}

	return lands, nil
}

// ListParcels retrieves every surveyed parcel with its boundary as GeoJSON,
// joined with the current owner where one exists
func (r *LandRepository) ListParcels(ctx context.Context) ([]*models.Parcel, error) {
	query := `
		SELECT p.id, p.grantor, p.grantee, p.instrument, p.acreage::text,
		       ST_AsGeoJSON(p.boundary), COALESCE(ul.blockchain_id, '')
		FROM parcels p
		LEFT JOIN user_land ul ON ul.land_id = p.id
		ORDER BY p.id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	defer rows.Close()

	return r.scanParcels(rows)
}

// ListParcelsByOwner retrieves the parcels currently owned by one wallet
func (r *LandRepository) ListParcelsByOwner(ctx context.Context, wallet string) ([]*models.Parcel, error) {
	query := `
		SELECT p.id, p.grantor, p.grantee, p.instrument, p.acreage::text,
		       ST_AsGeoJSON(p.boundary), ul.blockchain_id
		FROM parcels p
		JOIN user_land ul ON ul.land_id = p.id
		WHERE ul.blockchain_id = $1
		ORDER BY p.id ASC
	`

	rows, err := r.db.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels by owner: %w", err)
	}
	defer rows.Close()

	return r.scanParcels(rows)
}

// scanParcels collects parcel rows, skipping any whose geometry failed to
// serialize. One bad geometry must not take the whole listing down.
func (r *LandRepository) scanParcels(rows pgx.Rows) ([]*models.Parcel, error) {
	var parcels []*models.Parcel
	for rows.Next() {
		p := &models.Parcel{}
		var geojson *string
		err := rows.Scan(
			&p.ID,
			&p.Grantor,
			&p.Grantee,
			&p.Instrument,
			&p.Acreage,
			&geojson,
			&p.Owner,
		)
		if err != nil {
			r.log.Warn("skipping unreadable parcel row", "error", err)
			continue
		}
		if geojson == nil || *geojson == "" {
			r.log.Warn("skipping parcel with unserializable geometry", "parcel_id", p.ID)
			continue
		}
		p.GeoJSON = []byte(*geojson)
		parcels = append(parcels, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parcels: %w", err)
	}

	return parcels, nil
}
