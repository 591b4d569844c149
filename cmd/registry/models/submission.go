package models

import (
	"time"
)

// SubmissionStatus represents the review state of a land submission
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
// Approved and rejected are both terminal; there is no reopen.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Decision reports whether s is an acceptable review outcome.
func (s SubmissionStatus) Decision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Submission represents a land registration request awaiting review
// Maps to: land_submissions table
type Submission struct {
	ID int64 `db:"id" json:"id"`

	// Free-form location; "lat,lon" submissions get coordinate screening
	// at intake
	Location string `db:"location" json:"location"`

	// Stored document filename inside the uploads dir (never a full path)
	DocumentPath string `db:"document_path" json:"document_path"`

	Description string `db:"description" json:"description"`

	// Wallet address of the submitting owner
	OwnerWallet string `db:"owner_wallet" json:"owner_wallet"`

	Status SubmissionStatus `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Set by the review decision
	AdminNotes *string `db:"admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy *string `db:"reviewed_by" json:"reviewed_by,omitempty"`
}

// SubmissionFilter narrows the review queue listing. Zero values mean
// "no constraint".
type SubmissionFilter struct {
	// Exact status match
	Status SubmissionStatus

	// Case-insensitive substring over location, description, owner_wallet
	Search string

	// 1-based page
	Page  int
	Limit int
}

// Offset returns the OFFSET for the current page.
func (f SubmissionFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}
