package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docmanhq/docman/pkg/auth"
)

// Migration represents a schema migration step
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the schema migrations in order. The documents table
// cascades on user deletion: deleting a user must leave no orphaned
// documents.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create roles table",
			SQL: `
				CREATE TABLE IF NOT EXISTS roles (
					role_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL UNIQUE
				);
			`,
		},
		{
			Version:     2,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					full_name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL UNIQUE,
					password_hash VARCHAR(255) NOT NULL,
					role_id BIGINT NOT NULL DEFAULT 2 REFERENCES roles(role_id),
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_users_role_id ON users(role_id);
			`,
		},
		{
			Version:     3,
			Description: "Create documents table",
			SQL: `
				CREATE TABLE IF NOT EXISTS documents (
					document_id BIGSERIAL PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					content TEXT NOT NULL,
					access VARCHAR(16) NOT NULL CHECK (access IN ('public', 'private', 'role')),
					user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents(user_id);
				CREATE INDEX IF NOT EXISTS idx_documents_title ON documents(title);
			`,
		},
	}
}

// Migrate applies all migrations in order
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range Migrations() {
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
	}
	return nil
}

// Seed inserts the two roles and the bootstrap admin account. Idempotent:
// existing rows are left untouched.
func Seed(ctx context.Context, db *sql.DB, adminPassword string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO roles (role_id, name)
		VALUES (1, 'admin'), (2, 'standard user')
		ON CONFLICT (role_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (user_id, full_name, email, password_hash, role_id)
		VALUES (1, 'DocMan Admin', 'admin@docman.com', $1, 1)
		ON CONFLICT (user_id) DO NOTHING
	`, hash)
	if err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	// Keep the sequence ahead of the seeded ids.
	_, err = db.ExecContext(ctx, `
		SELECT setval('users_user_id_seq', GREATEST((SELECT MAX(user_id) FROM users), 1))
	`)
	if err != nil {
		return fmt.Errorf("failed to advance user id sequence: %w", err)
	}

	return nil
}
