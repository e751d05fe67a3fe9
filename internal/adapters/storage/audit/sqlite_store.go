package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/audit"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = `SELECT id, timestamp, category, action, severity, actor_id, actor_email, resource_id, description, ip_address
		 FROM audit_event`

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save appends an audit event.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, category, action, severity, actor_id, actor_email, resource_id, description, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(timeLayout), string(e.Category), string(e.Action), string(e.Severity),
		e.ActorID, e.ActorEmail, e.ResourceID, e.Description, e.IPAddress)
	return err
}

// List returns matching events, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter, limit int) ([]domain.Event, error) {
	query := selectColumns + ` WHERE 1=1`
	var args []any
	add := func(clause string, v any) {
		query += " AND " + clause
		args = append(args, v)
	}
	if f.Category != "" {
		add("category = ?", string(f.Category))
	}
	if f.Action != "" {
		add("action = ?", string(f.Action))
	}
	if f.ActorID != "" {
		add("actor_id = ?", f.ActorID)
	}
	if f.ResourceID != "" {
		add("resource_id = ?", f.ResourceID)
	}
	if f.Severity != "" {
		add("severity = ?", string(f.Severity))
	}
	if !f.From.IsZero() {
		add("timestamp >= ?", f.From.UTC().Format(timeLayout))
	}
	if !f.To.IsZero() {
		add("timestamp <= ?", f.To.UTC().Format(timeLayout))
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID retrieves a single event.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Event{}, fmt.Errorf("audit event not found: %w", err)
	}
	return e, err
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var ts, category, action, severity string
	if err := scan(&e.ID, &ts, &category, &action, &severity, &e.ActorID, &e.ActorEmail,
		&e.ResourceID, &e.Description, &e.IPAddress); err != nil {
		return domain.Event{}, err
	}
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse audit timestamp %q: %w", ts, err)
	}
	e.Timestamp = t
	e.Category = domain.Category(category)
	e.Action = domain.Action(action)
	e.Severity = domain.Severity(severity)
	return e, nil
}
