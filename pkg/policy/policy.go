package policy

import "github.com/docmanhq/docman/pkg/auth"

// Access is a document visibility level
type Access string

const (
	AccessPublic  Access = "public"  // readable by any authenticated caller
	AccessPrivate Access = "private" // readable by the owner and admins
	AccessRole    Access = "role"    // additionally readable by callers sharing the owner's role
)

// ValidAccess reports whether s is one of the allowed access levels
func ValidAccess(s string) bool {
	switch Access(s) {
	case AccessPublic, AccessPrivate, AccessRole:
		return true
	}
	return false
}

// Resource is the policy view of a document: its visibility plus the owner
// with the owner's role already resolved. Building this view requires a join
// against the user table; that fetch is the store's concern, not this
// package's.
type Resource struct {
	OwnerID     int64
	OwnerRoleID int64
	Access      Access
}

// CanRead decides whether the caller may read the document. The conditions
// form a pure disjunction; evaluation order carries no meaning.
func CanRead(caller auth.Identity, doc Resource) bool {
	return doc.Access == AccessPublic ||
		caller.IsAdmin() ||
		caller.UserID == doc.OwnerID ||
		(doc.Access == AccessRole && caller.RoleID == doc.OwnerRoleID)
}

// CanUpdate decides whether the caller may update the document. Only the
// owner may; there is no admin override for updates.
func CanUpdate(caller auth.Identity, doc Resource) bool {
	return caller.UserID == doc.OwnerID
}

// CanDelete decides whether the caller may delete the document
func CanDelete(caller auth.Identity, doc Resource) bool {
	return caller.UserID == doc.OwnerID || caller.IsAdmin()
}

// IsSelf reports whether the caller is the target user
func IsSelf(caller auth.Identity, targetUserID int64) bool {
	return caller.UserID == targetUserID
}

// IsSelfOrAdmin reports whether the caller is the target user or an admin
func IsSelfOrAdmin(caller auth.Identity, targetUserID int64) bool {
	return IsSelf(caller, targetUserID) || caller.IsAdmin()
}
