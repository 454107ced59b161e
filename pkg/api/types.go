package api

import (
	"regexp"
	"time"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/pagination"
	"github.com/docmanhq/docman/pkg/storage"
)

// WelcomeMessage greets clients on the API root
const WelcomeMessage = "Welcome to DocMan API"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// registerRequest is the payload for account creation
type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the payload for authentication
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest is the payload for profile updates. All fields are
// optional; a password change must be accompanied by the current password.
type updateUserRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	OldPassword string `json:"oldPassword"`
}

// documentRequest is the payload for document creation and update
type documentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Access  string `json:"access"`
}

// registeredUser is the account echo returned on registration
type registeredUser struct {
	UserID   int64     `json:"userId"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	RoleID   int64     `json:"roleId"`
	Created  time.Time `json:"created"`
}

// userSummary is the listing projection: no email, no update timestamp
type userSummary struct {
	UserID    int64     `json:"userId"`
	FullName  string    `json:"fullName"`
	RoleID    int64     `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

func summarizeUsers(users []*auth.User) []userSummary {
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			UserID:    u.UserID,
			FullName:  u.FullName,
			RoleID:    u.RoleID,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

// searchedUser is the search projection: email included so callers can tell
// matches apart, password and update timestamp still withheld
type searchedUser struct {
	UserID    int64     `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

func searchResults(users []*auth.User) []searchedUser {
	out := make([]searchedUser, 0, len(users))
	for _, u := range users {
		out = append(out, searchedUser{
			UserID:    u.UserID,
			FullName:  u.FullName,
			Email:     u.Email,
			RoleID:    u.RoleID,
			CreatedAt: u.CreatedAt,
		})
	}
	return out
}

// updatedUser is the echo returned after a profile update
type updatedUser struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type userListResponse struct {
	Pagination pagination.Page `json:"pagination"`
	Users      []userSummary   `json:"users"`
}

type userSearchResponse struct {
	Pagination pagination.Page `json:"pagination"`
	Users      []searchedUser  `json:"users"`
}

type documentListResponse struct {
	Pagination pagination.Page     `json:"pagination"`
	Documents  []*storage.Document `json:"documents"`
}
