package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/storage"
)

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewStore(db), mock, db
}

func TestStore_CreateUser(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Test User", "test@docman.com", "hashed", auth.RoleStandard).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at", "updated_at"}).
			AddRow(int64(4), now, now))

	user := &auth.User{
		FullName:     "Test User",
		Email:        "test@docman.com",
		PasswordHash: "hashed",
		RoleID:       auth.RoleStandard,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))

	assert.Equal(t, int64(4), user.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := store.CreateUser(context.Background(), &auth.User{
		FullName:     "Dup",
		Email:        "taken@docman.com",
		PasswordHash: "hashed",
		RoleID:       auth.RoleStandard,
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetUser(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "full_name", "email", "password_hash", "role_id", "created_at", "updated_at",
		}).AddRow(int64(2), "DocMan User", "user1@docman.com", "hashed", auth.RoleStandard, now, now))

	user, err := store.GetUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "DocMan User", user.FullName)
	assert.Equal(t, auth.RoleStandard, user.RoleID)
}

func TestStore_GetUser_NotFound(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "full_name", "email", "password_hash", "role_id", "created_at", "updated_at",
		}))

	_, err := store.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UserExists(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.UserExists(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_ListUsers(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "role_id", "created_at"}).
			AddRow(int64(1), "DocMan Admin", auth.RoleAdmin, now).
			AddRow(int64(2), "DocMan User", auth.RoleStandard, now))

	users, total, err := store.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	// the listing projection leaves email empty
	assert.Empty(t, users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteUser_NotFound(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteUser(context.Background(), 50)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_SearchUsers(t *testing.T) {
	store, mock, db := setupMockStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%doc%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("%doc%", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "role_id", "created_at"}).
			AddRow(int64(2), "DocMan User", "user1@docman.com", auth.RoleStandard, now))

	users, total, err := store.SearchUsers(context.Background(), "doc", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "user1@docman.com", users[0].Email)
}
