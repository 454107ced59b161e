package api

import (
	"errors"
	"net/http"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/middleware"
	"github.com/docmanhq/docman/pkg/pagination"
	"github.com/docmanhq/docman/pkg/policy"
	"github.com/docmanhq/docman/pkg/storage"
)

// Messages for user operations. Stable strings the original clients match on.
const (
	msgDuplicateEmail     = "an account with this email already exists"
	msgUnknownEmail       = "This email is not associated with any account"
	msgWrongPassword      = "Authentication failed. Password is incorrect"
	msgUserNotFound       = "This user does not exist or has been previously deleted"
	msgUserDeleted        = "User was successfully deleted"
	msgCannotDeleteUser   = "You cannot delete this user"
	msgConfirmOldPassword = "Enter your current password to confirm password change"
	msgNoUserDocuments    = "No document associated with this user"
)

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	v := &httputil.Validation{}
	v.Require(req.FullName, "Full name cannot be empty")
	v.Require(req.Email, "Email cannot be empty")
	v.Check(validEmail(req.Email), "Enter a valid email address")
	v.Require(req.Password, "Password cannot be empty")
	if v.Report(w) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	// Every self-registered account starts as a standard user; roles are
	// never client-assignable
	user := &auth.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       auth.RoleStandard,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			httputil.WriteConflict(w, msgDuplicateEmail)
			return
		}
		s.internalError(w, r, err)
		return
	}

	token, err := s.issuer.Issue(auth.Identity{UserID: user.UserID, RoleID: user.RoleID})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.metrics.TokensIssuedTotal.Inc()

	httputil.WriteCreated(w, map[string]interface{}{
		"token": token,
		"user": registeredUser{
			UserID:   user.UserID,
			FullName: user.FullName,
			Email:    user.Email,
			RoleID:   user.RoleID,
			Created:  user.CreatedAt,
		},
	})
}

func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	v := &httputil.Validation{}
	v.Require(req.Email, "Email cannot be empty")
	v.Check(validEmail(req.Email), "Enter a valid email address")
	v.Require(req.Password, "Password cannot be empty")
	if v.Report(w) {
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.AuthAttemptsTotal.WithLabelValues("unknown_email").Inc()
			httputil.WriteUnauthorized(w, msgUnknownEmail)
			return
		}
		s.internalError(w, r, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.metrics.AuthAttemptsTotal.WithLabelValues("wrong_password").Inc()
		httputil.WriteUnauthorized(w, msgWrongPassword)
		return
	}

	token, err := s.issuer.Issue(auth.Identity{UserID: user.UserID, RoleID: user.RoleID})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	s.metrics.TokensIssuedTotal.Inc()

	httputil.WriteSuccess(w, map[string]string{
		"accessToken": token,
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseParams(r)
	if err != nil {
		httputil.WriteValidationErrors(w, []string{err.Error()})
		return
	}

	users, total, err := s.store.ListUsers(r.Context(), params.Limit, params.Offset)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, userListResponse{
		Pagination: pagination.Paginate(params.Limit, params.Offset, total),
		Users:      summarizeUsers(users),
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathIDOrError(w, r, "id", "user id")
	if !ok {
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgUserNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"user": user,
	})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathIDOrError(w, r, "id", "user id")
	if !ok {
		return
	}

	var req updateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	v := &httputil.Validation{}
	if req.Email != "" {
		v.Check(validEmail(req.Email), "Enter a valid email address")
	}
	if req.Password != "" {
		v.Require(req.OldPassword, msgConfirmOldPassword)
	}
	if v.Report(w) {
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgUserNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	// A password change re-proves the current password even on an already
	// authenticated request
	if req.Password != "" {
		if !auth.CheckPassword(req.OldPassword, user.PasswordHash) {
			httputil.WriteForbidden(w, msgConfirmOldPassword)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		user.PasswordHash = hash
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	// RoleID is deliberately untouched: no self-promotion

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			httputil.WriteConflict(w, msgDuplicateEmail)
			return
		}
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgUserNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"user": updatedUser{
			UserID:   user.UserID,
			FullName: user.FullName,
			Email:    user.Email,
		},
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathIDOrError(w, r, "id", "user id")
	if !ok {
		return
	}

	// The bootstrap admin is undeletable, and says so before any lookup
	if userID == auth.BootstrapAdminID {
		httputil.WriteForbidden(w, msgCannotDeleteUser)
		return
	}

	exists, err := s.store.UserExists(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !exists {
		httputil.WriteNotFound(w, msgUserNotFound)
		return
	}

	identity := middleware.GetIdentity(r)
	if identity == nil || !policy.IsSelfOrAdmin(*identity, userID) {
		httputil.WriteForbidden(w, middleware.MsgOwnerOrAdminOnly)
		return
	}

	if err := s.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, msgUserNotFound)
			return
		}
		s.internalError(w, r, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, msgUserDeleted)
}

func (s *Server) getUserDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathIDOrError(w, r, "id", "user id")
	if !ok {
		return
	}

	documents, err := s.store.ListUserDocuments(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if len(documents) == 0 {
		httputil.WriteNotFound(w, msgNoUserDocuments)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"documents": documents,
	})
}
