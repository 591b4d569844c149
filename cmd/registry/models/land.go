package models

import (
	"encoding/json"
	"time"
)

// Land represents a registered land materialized from an approved submission
// Maps to: lands table
type Land struct {
	ID           int64     `db:"id" json:"id"`
	Location     string    `db:"location" json:"location"`
	DocumentPath string    `db:"document_path" json:"document_path"`
	OwnerWallet  string    `db:"owner_wallet" json:"owner_wallet"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Parcel represents a surveyed parcel from the seed dataset, carrying
// boundary geometry. Ownership lives in user_land so unclaimed parcels
// have an empty owner.
// Maps to: parcels table (joined with user_land)
type Parcel struct {
	ID         int64  `db:"id" json:"land_id"`
	Grantor    string `db:"grantor" json:"grantor"`
	Grantee    string `db:"grantee" json:"grantee"`
	Instrument string `db:"instrument" json:"instrument"`
	Acreage    string `db:"acreage" json:"acreage"`

	// Boundary serialized via ST_AsGeoJSON; raw so clients get the
	// GeoJSON object, not a double-encoded string
	GeoJSON json.RawMessage `db:"geojson" json:"geojson"`

	// Current owner wallet, empty when unclaimed
	Owner string `db:"owner" json:"owner,omitempty"`
}

// UserLand links a parcel to its current owner
// Maps to: user_land table (land_id is UNIQUE: one owner per parcel)
type UserLand struct {
	ID           int64  `db:"id" json:"id"`
	LandID       int64  `db:"land_id" json:"land_id"`
	BlockchainID string `db:"blockchain_id" json:"blockchain_id"`
}
