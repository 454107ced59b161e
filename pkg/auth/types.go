package auth

import "time"

// Role IDs seeded by the storage migrations. RoleAdmin is privileged for
// every authorization check system-wide.
const (
	RoleAdmin    int64 = 1
	RoleStandard int64 = 2
)

// BootstrapAdminID is the distinguished seeded admin account. It may never
// be deleted, not even by itself or another admin.
const BootstrapAdminID int64 = 1

// Identity is the authenticated caller attached to a request by the
// authentication middleware: the decoded token claims re-validated against
// the user store.
type Identity struct {
	UserID int64
	RoleID int64
}

// IsAdmin reports whether the caller holds the privileged role
func (id Identity) IsAdmin() bool {
	return id.RoleID == RoleAdmin
}

// User represents a registered account
type User struct {
	UserID       int64     `json:"userId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // never serialized, under any code path
	RoleID       int64     `json:"roleId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Role represents a named privilege level
type Role struct {
	RoleID int64  `json:"roleId"`
	Name   string `json:"name"`
}
