package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDocument(t *testing.T, ts *testServer, token, title, access string) int64 {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/documents", token, map[string]string{
		"title":   title,
		"content": "content of " + title,
		"access":  access,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	doc, ok := jsonBody(t, rec)["document"].(map[string]interface{})
	require.True(t, ok)
	id, ok := doc["documentId"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestCreateDocument(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodPost, "/api/v1/documents", token, map[string]string{
		"title":   "First",
		"content": "hello",
		"access":  "private",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	doc, ok := jsonBody(t, rec)["document"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "First", doc["title"])
	assert.Equal(t, "hello", doc["content"])
	assert.Equal(t, "private", doc["access"])
	assert.Equal(t, float64(user.UserID), doc["userId"])
}

func TestCreateDocument_Validation(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodPost, "/api/v1/documents", token, map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := jsonBody(t, rec)["errors"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "title cannot be empty")
	assert.Contains(t, errs, "content cannot be empty")
	assert.Contains(t, errs, "access cannot be empty")
}

func TestCreateDocument_InvalidAccess(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodPost, "/api/v1/documents", token, map[string]string{
		"title":   "First",
		"content": "hello",
		"access":  "secret",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := jsonBody(t, rec)["errors"].(string)
	require.True(t, ok)
	assert.Equal(t, msgInvalidAccess, errs)
}

func TestListDocuments_StripsContent(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	createDocument(t, ts, token, "Public One", "public")
	createDocument(t, ts, token, "Private One", "private")

	rec := ts.do(t, http.MethodGet, "/api/v1/documents", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	docs, ok := jsonBody(t, rec)["documents"].([]interface{})
	require.True(t, ok)
	require.Len(t, docs, 2)
	for _, d := range docs {
		m, ok := d.(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, m, "content")
		assert.Contains(t, m, "access")
	}
}

func TestListDocuments_EmptyPage(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodGet, "/api/v1/documents", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNoDocuments, bodyMessage(t, rec))
}

func TestListDocuments_PaginationShape(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	for i := 1; i <= 3; i++ {
		createDocument(t, ts, token, fmt.Sprintf("Doc %d", i), "public")
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/documents?limit=2&offset=0", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := jsonBody(t, rec)
	docs, ok := body["documents"].([]interface{})
	require.True(t, ok)
	assert.Len(t, docs, 2)

	pageInfo, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), pageInfo["page"])
	assert.Equal(t, float64(2), pageInfo["pageCount"])
	assert.Equal(t, float64(2), pageInfo["pageSize"])
	assert.Equal(t, float64(3), pageInfo["totalCount"])
}

func TestListDocuments_BadPaginationParams(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodGet, "/api/v1/documents?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDocument(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	id := createDocument(t, ts, token, "Mine", "private")

	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, ok := jsonBody(t, rec)["document"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Mine", doc["title"])
	assert.Equal(t, "content of Mine", doc["content"])
}

func TestGetDocument_AccessMatrix(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	_, otherToken := ts.registerUser(t, "Sam Poe", "sam@example.com", "password2")
	adminToken := ts.adminToken(t)

	publicID := createDocument(t, ts, ownerToken, "Public", "public")
	privateID := createDocument(t, ts, ownerToken, "Private", "private")
	roleID := createDocument(t, ts, ownerToken, "Role", "role")

	tests := []struct {
		name     string
		token    string
		id       int64
		wantCode int
	}{
		{"owner reads own private", ownerToken, privateID, http.StatusOK},
		{"admin reads any private", adminToken, privateID, http.StatusOK},
		{"stranger denied private", otherToken, privateID, http.StatusForbidden},
		{"anyone reads public", otherToken, publicID, http.StatusOK},
		{"same role reads role document", otherToken, roleID, http.StatusOK},
		{"admin reads role document of another role", adminToken, roleID, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", tt.id), tt.token, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, msgDocumentViewDenied, bodyMessage(t, rec))
			}
		})
	}
}

func TestGetDocument_MissingBeatsAccess(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodGet, "/api/v1/documents/99", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgDocumentNotFound, bodyMessage(t, rec))
}

func TestGetDocument_NonIntegerID(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodGet, "/api/v1/documents/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := jsonBody(t, rec)["errors"].(string)
	require.True(t, ok)
	assert.Equal(t, "Only integers are allowed as document id", errs)
}

func TestUpdateDocument_OwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	id := createDocument(t, ts, ownerToken, "Original", "public")

	payload := map[string]string{
		"title":   "Updated",
		"content": "new content",
		"access":  "private",
	}

	// Even an admin may not rewrite someone else's document
	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", id), ts.adminToken(t), payload)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgDocumentUpdateOwner, bodyMessage(t, rec))

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", id), ownerToken, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, ok := jsonBody(t, rec)["document"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Updated", doc["title"])
	assert.Equal(t, "private", doc["access"])
}

func TestUpdateDocument_Validation(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	id := createDocument(t, ts, token, "Original", "public")

	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", id), token, map[string]string{
		"title":  "Updated",
		"access": "public",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := jsonBody(t, rec)["errors"].(string)
	require.True(t, ok)
	assert.Equal(t, "content cannot be empty", errs)
}

func TestUpdateDocument_Missing(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodPut, "/api/v1/documents/99", token, map[string]string{
		"title":   "Updated",
		"content": "new content",
		"access":  "public",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgDocumentNotFound, bodyMessage(t, rec))
}

func TestDeleteDocument(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")
	_, otherToken := ts.registerUser(t, "Sam Poe", "sam@example.com", "password2")

	ownerDoc := createDocument(t, ts, ownerToken, "Owner deletes", "public")
	adminDoc := createDocument(t, ts, ownerToken, "Admin deletes", "public")
	keptDoc := createDocument(t, ts, ownerToken, "Kept", "public")

	// A stranger may not delete, admin or owner may
	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", keptDoc), otherToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgDocumentDeleteOwner, bodyMessage(t, rec))

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", ownerDoc), ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgDocumentDeleted, bodyMessage(t, rec))

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", adminDoc), ts.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", ownerDoc), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDocument_Missing(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerUser(t, "Jamie Doe", "jamie@example.com", "password1")

	rec := ts.do(t, http.MethodDelete, "/api/v1/documents/99", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgDocumentNotFound, bodyMessage(t, rec))
}
