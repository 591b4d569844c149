package models

import (
	"time"
)

// Transaction types recorded in the audit trail.
const (
	TransactionTransfer = "Transfer"
	TransactionClaim    = "Claim"
)

// Transaction is an append-only audit row for ownership changes.
// Rows are written in the same DB transaction as the mutation they record,
// so the trail can never miss a committed change.
// Maps to: transactions table
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	LandID    int64     `db:"land_id" json:"land_id"`
	Initiator string    `db:"initiator" json:"initiator"`
	Recipient string    `db:"recipient" json:"recipient"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
