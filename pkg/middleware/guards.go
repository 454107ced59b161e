package middleware

import (
	"net/http"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/policy"
)

// RequireAdmin restricts a route to admin callers
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r)
		if identity == nil || !identity.IsAdmin() {
			httputil.WriteForbidden(w, MsgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OwnershipGuard gates routes that target a user by the {id} path parameter.
// Existence of the target is checked before ownership, so a caller probing a
// deleted account gets a 404, never a 403 that confirms the account exists.
type OwnershipGuard struct {
	users UserChecker
}

// NewOwnershipGuard creates a guard backed by the given user store
func NewOwnershipGuard(users UserChecker) *OwnershipGuard {
	return &OwnershipGuard{users: users}
}

// RequireSelf restricts a route to the user it targets
func (g *OwnershipGuard) RequireSelf(next http.Handler) http.Handler {
	return g.check(next, func(identity auth.Identity, targetID int64) bool {
		return policy.IsSelf(identity, targetID)
	}, MsgOwnerOnly)
}

// RequireSelfOrAdmin restricts a route to the user it targets or an admin
func (g *OwnershipGuard) RequireSelfOrAdmin(next http.Handler) http.Handler {
	return g.check(next, func(identity auth.Identity, targetID int64) bool {
		return policy.IsSelfOrAdmin(identity, targetID)
	}, MsgOwnerOrAdminOnly)
}

func (g *OwnershipGuard) check(next http.Handler, allowed func(auth.Identity, int64) bool, denyMessage string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := httputil.ParsePathIDOrError(w, r, "id", "user id")
		if !ok {
			return
		}

		exists, err := g.users.UserExists(r.Context(), targetID)
		if err != nil {
			httputil.WriteInternalError(w)
			return
		}
		if !exists {
			httputil.WriteNotFound(w, MsgUserGone)
			return
		}

		identity := GetIdentity(r)
		if identity == nil || !allowed(*identity, targetID) {
			httputil.WriteForbidden(w, denyMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}
