package models

import (
	"time"
)

// User roles. Anything above RoleMember is allowed on admin routes.
const (
	RoleMember = 0
	RoleAdmin  = 1
)

// User represents a wallet-identified account. Users are created on first
// contact (registration-on-write), so a row existing implies nothing beyond
// the wallet having touched the registry.
// Maps to: users table
type User struct {
	BlockchainID string    `db:"blockchain_id" json:"blockchain_id"`
	UserRole     int       `db:"user_role" json:"user_role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user may access admin routes.
func (u *User) IsAdmin() bool {
	return u.UserRole >= RoleAdmin
}
