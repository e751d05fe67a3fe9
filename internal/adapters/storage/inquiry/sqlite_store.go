package inquiry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/inquiry"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT id, email, message, type, is_read, created_at FROM inquiry"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new inquiry store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Inquiry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanInquiry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Inquiry{}, fmt.Errorf("inquiry not found: %w", err)
	}
	return entity, err
}

// Save persists an Inquiry (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Inquiry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inquiry (id, email, message, type, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, message=excluded.message, type=excluded.type, is_read=excluded.is_read`,
		entity.ID, entity.Email, entity.Message, entity.Type, entity.IsRead,
		entity.CreatedAt.UTC().Format(timeLayout))
	return err
}

// Delete removes an Inquiry.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM inquiry WHERE id = ?", id)
	return err
}

// List returns inquiries newest first, optionally narrowed to one type.
func (s *SQLiteStore) List(ctx context.Context, typeFilter string) ([]domain.Inquiry, error) {
	var rows *sql.Rows
	var err error
	if typeFilter == "" || typeFilter == domain.FilterAll {
		rows, err = s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC, id")
	} else {
		rows, err = s.db.QueryContext(ctx, selectColumns+" WHERE type = ? ORDER BY created_at DESC, id", typeFilter)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Inquiry
	for rows.Next() {
		entity, err := scanInquiry(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// CountUnread returns the number of inquiries not yet opened by staff.
func (s *SQLiteStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inquiry WHERE is_read = 0").Scan(&count)
	return count, err
}

func scanInquiry(scan func(dest ...any) error) (domain.Inquiry, error) {
	var entity domain.Inquiry
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.Message,
		&entity.Type,
		&entity.IsRead,
		&createdAt,
	)
	if err != nil {
		return domain.Inquiry{}, err
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
