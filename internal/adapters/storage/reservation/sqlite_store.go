package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/reservation"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT id, first_name, last_name, email, start_date, end_date, room_id, created_at FROM reservation"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new reservation store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Reservation by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Reservation, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanReservation(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Reservation{}, fmt.Errorf("reservation not found: %w", err)
	}
	return entity, err
}

// Save persists a Reservation (insert or update). Dates are stored as YYYY-MM-DD.
// PRE: entity has been validated and its room exists
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Reservation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reservation (id, first_name, last_name, email, start_date, end_date, room_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name=excluded.first_name, last_name=excluded.last_name, email=excluded.email,
		   start_date=excluded.start_date, end_date=excluded.end_date, room_id=excluded.room_id`,
		entity.ID, entity.FirstName, entity.LastName, entity.Email,
		entity.StartDate.Format(domain.DateLayout), entity.EndDate.Format(domain.DateLayout),
		entity.RoomID, entity.CreatedAt.UTC().Format(timeLayout))
	return err
}

// Insert adds a reservation in one statement that also checks for overlaps, so two
// concurrent bookings of the same dates cannot both succeed.
// PRE: entity has been validated and its ID is new
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Reservation) error {
	start := entity.StartDate.Format(domain.DateLayout)
	end := entity.EndDate.Format(domain.DateLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reservation (id, first_name, last_name, email, start_date, end_date, room_id, created_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
		   SELECT 1 FROM reservation WHERE room_id = ? AND start_date <= ? AND end_date >= ?
		 )`,
		entity.ID, entity.FirstName, entity.LastName, entity.Email, start, end,
		entity.RoomID, entity.CreatedAt.UTC().Format(timeLayout),
		entity.RoomID, end, start)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOverlap
	}
	return nil
}

// Delete removes a Reservation.
// PRE: id is non-empty
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reservation WHERE id = ?", id)
	return err
}

// List returns reservations ordered by room, then start date, then creation.
// The creation tiebreak keeps the first-booked reservation first for overlapping rows.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Reservation, error) {
	var where []string
	var args []any

	if filter.RoomID != "" {
		where = append(where, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	// ISO dates compare correctly as text.
	if !filter.To.IsZero() {
		where = append(where, "start_date <= ?")
		args = append(args, filter.To.Format(domain.DateLayout))
	}
	if !filter.From.IsZero() {
		where = append(where, "end_date >= ?")
		args = append(args, filter.From.Format(domain.DateLayout))
	}

	var qb strings.Builder
	qb.WriteString(selectColumns)
	if len(where) > 0 {
		qb.WriteString(" WHERE ")
		qb.WriteString(strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY room_id, start_date, created_at, id")

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Reservation
	for rows.Next() {
		entity, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanReservation(scan func(dest ...any) error) (domain.Reservation, error) {
	var entity domain.Reservation
	var start, end, createdAt string
	err := scan(
		&entity.ID,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&start,
		&end,
		&entity.RoomID,
		&createdAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}
	if entity.StartDate, err = domain.ParseDate(start); err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation %s start date: %w", entity.ID, err)
	}
	if entity.EndDate, err = domain.ParseDate(end); err != nil {
		return domain.Reservation{}, fmt.Errorf("reservation %s end date: %w", entity.ID, err)
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}
