package storage

import (
	"context"
	"errors"
	"time"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/policy"
)

// Sentinel errors the API layer translates into response statuses
var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateEmail is returned when a unique email constraint is violated
	ErrDuplicateEmail = errors.New("email already registered")
)

// Document represents a stored document. Content is omitted from listings
// and OwnerRoleID is only resolved on single-document fetches, where the
// access policy needs the owner's role.
type Document struct {
	DocumentID  int64         `json:"documentId"`
	Title       string        `json:"title"`
	Content     string        `json:"content,omitempty"`
	Access      policy.Access `json:"access"`
	UserID      int64         `json:"userId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	OwnerRoleID int64         `json:"-"`
}

// Resource returns the policy view of the document. Only meaningful on
// documents fetched with the owner's role resolved.
func (d *Document) Resource() policy.Resource {
	return policy.Resource{
		OwnerID:     d.UserID,
		OwnerRoleID: d.OwnerRoleID,
		Access:      d.Access,
	}
}

// UserStore persists user accounts
type UserStore interface {
	// CreateUser inserts a new user and fills in its generated fields.
	// Returns ErrDuplicateEmail when the email is already registered.
	CreateUser(ctx context.Context, user *auth.User) error

	// GetUser fetches a user by id. Returns ErrNotFound when absent.
	GetUser(ctx context.Context, userID int64) (*auth.User, error)

	// GetUserByEmail fetches a user by exact email match
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)

	// UserExists reports whether a user id corresponds to a live account
	UserExists(ctx context.Context, userID int64) (bool, error)

	// ListUsers returns one page of users plus the total count
	ListUsers(ctx context.Context, limit, offset int) ([]*auth.User, int, error)

	// UpdateUser persists fullName, email, passwordHash for the user
	UpdateUser(ctx context.Context, user *auth.User) error

	// DeleteUser removes the user. The schema cascades to the user's
	// documents, so no orphans persist.
	DeleteUser(ctx context.Context, userID int64) error

	// SearchUsers returns users whose fullName or email contains the query,
	// case-insensitively, plus the total match count
	SearchUsers(ctx context.Context, query string, limit, offset int) ([]*auth.User, int, error)
}

// DocumentStore persists documents
type DocumentStore interface {
	// CreateDocument inserts a new document and fills in its generated fields
	CreateDocument(ctx context.Context, doc *Document) error

	// GetDocument fetches a document by id with the owner's role resolved.
	// Returns ErrNotFound when absent.
	GetDocument(ctx context.Context, documentID int64) (*Document, error)

	// ListDocuments returns one page of documents (content excluded) plus
	// the total count
	ListDocuments(ctx context.Context, limit, offset int) ([]*Document, int, error)

	// ListUserDocuments returns all documents owned by a user, content
	// excluded
	ListUserDocuments(ctx context.Context, userID int64) ([]*Document, error)

	// UpdateDocument persists title, content, access for the document
	UpdateDocument(ctx context.Context, doc *Document) error

	// DeleteDocument removes the document
	DeleteDocument(ctx context.Context, documentID int64) error

	// SearchDocuments returns documents whose title contains the query,
	// case-insensitively, plus the total match count
	SearchDocuments(ctx context.Context, query string, limit, offset int) ([]*Document, int, error)
}

// Store is the full persistence interface the API server depends on
type Store interface {
	UserStore
	DocumentStore

	// Ping verifies the backing database is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connections
	Close() error
}
