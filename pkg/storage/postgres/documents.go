package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docmanhq/docman/pkg/storage"
)

// CreateDocument inserts a new document
func (s *Store) CreateDocument(ctx context.Context, doc *storage.Document) error {
	query := `
		INSERT INTO documents (title, content, access, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING document_id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		doc.Title,
		doc.Content,
		doc.Access,
		doc.UserID,
	).Scan(&doc.DocumentID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument fetches a document by id with the owner's role resolved, so
// the access policy can evaluate role-scoped visibility.
func (s *Store) GetDocument(ctx context.Context, documentID int64) (*storage.Document, error) {
	query := `
		SELECT d.document_id, d.title, d.content, d.access, d.user_id,
		       d.created_at, d.updated_at, u.role_id
		FROM documents d
		JOIN users u ON u.user_id = d.user_id
		WHERE d.document_id = $1
	`

	doc := &storage.Document{}
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&doc.DocumentID,
		&doc.Title,
		&doc.Content,
		&doc.Access,
		&doc.UserID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.OwnerRoleID,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns one page of documents, content excluded, plus the
// total count
func (s *Store) ListDocuments(ctx context.Context, limit, offset int) ([]*storage.Document, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := `
		SELECT document_id, title, access, user_id, created_at, updated_at
		FROM documents
		ORDER BY document_id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocumentRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// ListUserDocuments returns all documents owned by a user, content excluded
func (s *Store) ListUserDocuments(ctx context.Context, userID int64) ([]*storage.Document, error) {
	query := `
		SELECT document_id, title, access, user_id, created_at, updated_at
		FROM documents
		WHERE user_id = $1
		ORDER BY document_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user documents: %w", err)
	}
	defer rows.Close()

	return scanDocumentRows(rows)
}

func scanDocumentRows(rows *sql.Rows) ([]*storage.Document, error) {
	docs := make([]*storage.Document, 0)
	for rows.Next() {
		doc := &storage.Document{}
		err := rows.Scan(
			&doc.DocumentID,
			&doc.Title,
			&doc.Access,
			&doc.UserID,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// UpdateDocument persists title, content and access for the document
func (s *Store) UpdateDocument(ctx context.Context, doc *storage.Document) error {
	query := `
		UPDATE documents
		SET title = $1, content = $2, access = $3, updated_at = NOW()
		WHERE document_id = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		doc.Title,
		doc.Content,
		doc.Access,
		doc.DocumentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteDocument removes the document
func (s *Store) DeleteDocument(ctx context.Context, documentID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SearchDocuments returns documents whose title contains the query,
// case-insensitively, plus the total match count. Content and owner are
// excluded from the results.
func (s *Store) SearchDocuments(ctx context.Context, query string, limit, offset int) ([]*storage.Document, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE title ILIKE $1`, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count matching documents: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, title, access, created_at, updated_at
		FROM documents
		WHERE title ILIKE $1
		ORDER BY document_id
		LIMIT $2 OFFSET $3
	`, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search documents: %w", err)
	}
	defer rows.Close()

	docs := make([]*storage.Document, 0)
	for rows.Next() {
		doc := &storage.Document{}
		err := rows.Scan(
			&doc.DocumentID,
			&doc.Title,
			&doc.Access,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, total, nil
}
