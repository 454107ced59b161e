package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/observability"
	"github.com/docmanhq/docman/pkg/storage"
)

// memStore is an in-memory storage.Store with the same projection rules as
// the SQL store: listings exclude document content, search and per-user
// listings also exclude the owner id.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]*auth.User
	docs     map[int64]*storage.Document
	nextUser int64
	nextDoc  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*auth.User),
		docs:     make(map[int64]*storage.Document),
		nextUser: 1,
		nextDoc:  1,
	}
}

func (m *memStore) CreateUser(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	user.UserID = m.nextUser
	m.nextUser++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.UserID] = &clone
	return nil
}

func (m *memStore) GetUser(_ context.Context, userID int64) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UserExists(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[userID]
	return ok, nil
}

func (m *memStore) sortedUserIDs() []int64 {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memStore) ListUsers(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.sortedUserIDs()
	total := len(ids)
	out := make([]*auth.User, 0)
	for i := offset; i < total && len(out) < limit; i++ {
		clone := *m.users[ids[i]]
		clone.Email = ""
		out = append(out, &clone)
	}
	return out, total, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.UserID]
	if !ok {
		return storage.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.UserID && u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}
	clone := *user
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	m.users[user.UserID] = &clone
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.users, userID)
	for id, d := range m.docs {
		if d.UserID == userID {
			delete(m.docs, id)
		}
	}
	return nil
}

func (m *memStore) SearchUsers(_ context.Context, query string, limit, offset int) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	matched := make([]*auth.User, 0)
	for _, id := range m.sortedUserIDs() {
		u := m.users[id]
		if strings.Contains(strings.ToLower(u.FullName), q) || strings.Contains(strings.ToLower(u.Email), q) {
			clone := *u
			matched = append(matched, &clone)
		}
	}
	total := len(matched)
	out := make([]*auth.User, 0)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, matched[i])
	}
	return out, total, nil
}

func (m *memStore) CreateDocument(_ context.Context, doc *storage.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.DocumentID = m.nextDoc
	m.nextDoc++
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	clone := *doc
	m.docs[doc.DocumentID] = &clone
	return nil
}

func (m *memStore) GetDocument(_ context.Context, documentID int64) (*storage.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[documentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *d
	if owner, ok := m.users[d.UserID]; ok {
		clone.OwnerRoleID = owner.RoleID
	}
	return &clone, nil
}

func (m *memStore) sortedDocIDs() []int64 {
	ids := make([]int64, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memStore) ListDocuments(_ context.Context, limit, offset int) ([]*storage.Document, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.sortedDocIDs()
	total := len(ids)
	out := make([]*storage.Document, 0)
	for i := offset; i < total && len(out) < limit; i++ {
		clone := *m.docs[ids[i]]
		clone.Content = ""
		out = append(out, &clone)
	}
	return out, total, nil
}

func (m *memStore) ListUserDocuments(_ context.Context, userID int64) ([]*storage.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.Document, 0)
	for _, id := range m.sortedDocIDs() {
		d := m.docs[id]
		if d.UserID == userID {
			clone := *d
			clone.Content = ""
			clone.UserID = 0
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memStore) UpdateDocument(_ context.Context, doc *storage.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.docs[doc.DocumentID]
	if !ok {
		return storage.ErrNotFound
	}
	clone := *doc
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	m.docs[doc.DocumentID] = &clone
	return nil
}

func (m *memStore) DeleteDocument(_ context.Context, documentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[documentID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.docs, documentID)
	return nil
}

func (m *memStore) SearchDocuments(_ context.Context, query string, limit, offset int) ([]*storage.Document, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	matched := make([]*storage.Document, 0)
	for _, id := range m.sortedDocIDs() {
		d := m.docs[id]
		if strings.Contains(strings.ToLower(d.Title), q) {
			clone := *d
			clone.Content = ""
			clone.UserID = 0
			matched = append(matched, &clone)
		}
	}
	total := len(matched)
	out := make([]*storage.Document, 0)
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, matched[i])
	}
	return out, total, nil
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

type testServer struct {
	*Server
	store  *memStore
	issuer *auth.TokenIssuer
}

// newTestServer builds a server over the in-memory store, pre-seeded with
// the bootstrap admin account (admin@docman.com / rootpass).
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := newMemStore()
	issuer := auth.NewTokenIssuer("test-secret", 0)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	adminHash, err := auth.HashPassword("rootpass")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), &auth.User{
		FullName:     "DocMan Admin",
		Email:        "admin@docman.com",
		PasswordHash: adminHash,
		RoleID:       auth.RoleAdmin,
	}))

	return &testServer{
		Server: NewServer(store, issuer, logger, metrics, nil),
		store:  store,
		issuer: issuer,
	}
}

// registerUser creates a standard user directly against the store and
// returns a valid token for it
func (ts *testServer) registerUser(t *testing.T, fullName, email, password string) (*auth.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &auth.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		RoleID:       auth.RoleStandard,
	}
	require.NoError(t, ts.store.CreateUser(context.Background(), user))

	token, err := ts.issuer.Issue(auth.Identity{UserID: user.UserID, RoleID: user.RoleID})
	require.NoError(t, err)
	return user, token
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := ts.issuer.Issue(auth.Identity{UserID: auth.BootstrapAdminID, RoleID: auth.RoleAdmin})
	require.NoError(t, err)
	return token
}

// do sends a request through the full router, so guards and middleware run
func (ts *testServer) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func bodyMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := jsonBody(t, rec)["message"].(string)
	return msg
}

var _ storage.Store = (*memStore)(nil)
