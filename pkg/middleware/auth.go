package middleware

import (
	"context"
	"net/http"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/contextkeys"
	"github.com/docmanhq/docman/pkg/httputil"
)

// Messages returned by the authentication middleware. Clients match on these
// strings, so they are stable.
const (
	MsgMissingToken     = "Invalid request. You need a valid token to be authenticated"
	MsgInvalidToken     = "You are not authorized to access this resource"
	MsgUnknownCaller    = "user making this request cannot be authenticated"
	MsgAdminOnly        = "Only admins are allowed to access this resource"
	MsgOwnerOnly        = "Only the owner can access this resource"
	MsgOwnerOrAdminOnly = "Only the owner or an admin can access this resource"
	MsgUserGone         = "user does not exist or has been previously deleted"
)

// Authenticator verifies bearer tokens and attaches the caller identity to
// the request context. A token is only half the proof: the account it names
// must still exist, so every authenticated request re-checks the user store.
type Authenticator struct {
	issuer *auth.TokenIssuer
	users  UserChecker
}

// UserChecker reports whether a user account still exists. Satisfied by the
// storage layer.
type UserChecker interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// NewAuthenticator creates an authentication middleware backed by the given
// token issuer and user store
func NewAuthenticator(issuer *auth.TokenIssuer, users UserChecker) *Authenticator {
	return &Authenticator{
		issuer: issuer,
		users:  users,
	}
}

// Handler wraps an HTTP handler with authentication. The token is read raw
// from the Authorization header (no scheme prefix), with x-access-token as a
// fallback.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			token = r.Header.Get("x-access-token")
		}
		if token == "" {
			httputil.WriteBadRequest(w, MsgMissingToken)
			return
		}

		identity, err := a.issuer.Verify(token)
		if err != nil {
			httputil.WriteUnauthorized(w, MsgInvalidToken)
			return
		}

		// A valid signature on a deleted account is still a dead token
		exists, err := a.users.UserExists(r.Context(), identity.UserID)
		if err != nil || !exists {
			httputil.WriteUnauthorized(w, MsgUnknownCaller)
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), &identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authenticated caller identity from the request.
// Returns nil when the request did not pass through the Authenticator.
func GetIdentity(r *http.Request) *auth.Identity {
	v := contextkeys.Identity(r.Context())
	if v == nil {
		return nil
	}
	identity, ok := v.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
