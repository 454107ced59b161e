package storage

import (
	"context"
	"time"

	"github.com/docmanhq/docman/pkg/auth"
)

// OperationObserver receives the outcome of every store call. Satisfied by
// observability.Metrics.
type OperationObserver interface {
	ObserveStorageOperation(operation string, duration time.Duration, err error)
}

// InstrumentedStore decorates a Store, reporting each operation's name,
// duration and outcome to an observer.
type InstrumentedStore struct {
	next Store
	obs  OperationObserver
}

var _ Store = (*InstrumentedStore)(nil)

// Instrument wraps a store with operation observation
func Instrument(next Store, obs OperationObserver) *InstrumentedStore {
	return &InstrumentedStore{next: next, obs: obs}
}

func (s *InstrumentedStore) observe(operation string, start time.Time, err error) {
	s.obs.ObserveStorageOperation(operation, time.Since(start), err)
}

func (s *InstrumentedStore) CreateUser(ctx context.Context, user *auth.User) error {
	start := time.Now()
	err := s.next.CreateUser(ctx, user)
	s.observe("create_user", start, err)
	return err
}

func (s *InstrumentedStore) GetUser(ctx context.Context, userID int64) (*auth.User, error) {
	start := time.Now()
	user, err := s.next.GetUser(ctx, userID)
	s.observe("get_user", start, err)
	return user, err
}

func (s *InstrumentedStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	start := time.Now()
	user, err := s.next.GetUserByEmail(ctx, email)
	s.observe("get_user_by_email", start, err)
	return user, err
}

func (s *InstrumentedStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	start := time.Now()
	exists, err := s.next.UserExists(ctx, userID)
	s.observe("user_exists", start, err)
	return exists, err
}

func (s *InstrumentedStore) ListUsers(ctx context.Context, limit, offset int) ([]*auth.User, int, error) {
	start := time.Now()
	users, total, err := s.next.ListUsers(ctx, limit, offset)
	s.observe("list_users", start, err)
	return users, total, err
}

func (s *InstrumentedStore) UpdateUser(ctx context.Context, user *auth.User) error {
	start := time.Now()
	err := s.next.UpdateUser(ctx, user)
	s.observe("update_user", start, err)
	return err
}

func (s *InstrumentedStore) DeleteUser(ctx context.Context, userID int64) error {
	start := time.Now()
	err := s.next.DeleteUser(ctx, userID)
	s.observe("delete_user", start, err)
	return err
}

func (s *InstrumentedStore) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*auth.User, int, error) {
	start := time.Now()
	users, total, err := s.next.SearchUsers(ctx, query, limit, offset)
	s.observe("search_users", start, err)
	return users, total, err
}

func (s *InstrumentedStore) CreateDocument(ctx context.Context, doc *Document) error {
	start := time.Now()
	err := s.next.CreateDocument(ctx, doc)
	s.observe("create_document", start, err)
	return err
}

func (s *InstrumentedStore) GetDocument(ctx context.Context, documentID int64) (*Document, error) {
	start := time.Now()
	doc, err := s.next.GetDocument(ctx, documentID)
	s.observe("get_document", start, err)
	return doc, err
}

func (s *InstrumentedStore) ListDocuments(ctx context.Context, limit, offset int) ([]*Document, int, error) {
	start := time.Now()
	docs, total, err := s.next.ListDocuments(ctx, limit, offset)
	s.observe("list_documents", start, err)
	return docs, total, err
}

func (s *InstrumentedStore) ListUserDocuments(ctx context.Context, userID int64) ([]*Document, error) {
	start := time.Now()
	docs, err := s.next.ListUserDocuments(ctx, userID)
	s.observe("list_user_documents", start, err)
	return docs, err
}

func (s *InstrumentedStore) UpdateDocument(ctx context.Context, doc *Document) error {
	start := time.Now()
	err := s.next.UpdateDocument(ctx, doc)
	s.observe("update_document", start, err)
	return err
}

func (s *InstrumentedStore) DeleteDocument(ctx context.Context, documentID int64) error {
	start := time.Now()
	err := s.next.DeleteDocument(ctx, documentID)
	s.observe("delete_document", start, err)
	return err
}

func (s *InstrumentedStore) SearchDocuments(ctx context.Context, query string, limit, offset int) ([]*Document, int, error) {
	start := time.Now()
	docs, total, err := s.next.SearchDocuments(ctx, query, limit, offset)
	s.observe("search_documents", start, err)
	return docs, total, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

// Close is not observed; it runs once during shutdown
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
