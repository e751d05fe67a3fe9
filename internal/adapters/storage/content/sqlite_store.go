package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/content"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT id, name, path, content_cs, content_en, last_edited FROM content_document"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new content store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Document by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Document{}, fmt.Errorf("content document not found: %w", err)
	}
	return doc, err
}

// Save persists both language variants of a Document in one statement.
// PRE: doc has been validated
func (s *SQLiteStore) Save(ctx context.Context, doc domain.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content_document (id, name, path, content_cs, content_en, last_edited)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, path=excluded.path, content_cs=excluded.content_cs,
		   content_en=excluded.content_en, last_edited=excluded.last_edited`,
		doc.ID, doc.Name, doc.Path, doc.CS, doc.EN, doc.LastEdited.UTC().Format(timeLayout))
	return err
}

// List returns all documents ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM content_document").Scan(&count)
	return count, err
}

func scanDocument(scan func(dest ...any) error) (domain.Document, error) {
	var doc domain.Document
	var lastEdited string
	if err := scan(&doc.ID, &doc.Name, &doc.Path, &doc.CS, &doc.EN, &lastEdited); err != nil {
		return domain.Document{}, err
	}
	doc.LastEdited, _ = time.Parse(timeLayout, lastEdited)
	return doc, nil
}
