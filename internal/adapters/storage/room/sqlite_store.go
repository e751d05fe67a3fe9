package room

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/room"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT id, name, type, price, capacity, description, amenities, image_urls, created_at FROM room"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new room store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Room by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Room, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanRoom(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Room{}, fmt.Errorf("room not found: %w", err)
	}
	return entity, err
}

// Save persists a Room (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; created_at is kept on update
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Room) error {
	amenities, err := json.Marshal(nonNilAmenities(entity.Amenities))
	if err != nil {
		return err
	}
	images, err := json.Marshal(nonNilStrings(entity.ImageURLs))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO room (id, name, type, price, capacity, description, amenities, image_urls, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, type=excluded.type, price=excluded.price, capacity=excluded.capacity,
		   description=excluded.description, amenities=excluded.amenities, image_urls=excluded.image_urls`,
		entity.ID, entity.Name, entity.Type, entity.Price, entity.Capacity, entity.Description,
		string(amenities), string(images), entity.CreatedAt.UTC().Format(timeLayout))
	return err
}

// Delete removes a Room. Its reservations are removed by the foreign key cascade.
// PRE: id is non-empty
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM room WHERE id = ?", id)
	return err
}

// List returns all rooms ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Room
	for rows.Next() {
		entity, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanRoom(scan func(dest ...any) error) (domain.Room, error) {
	var entity domain.Room
	var amenities, images, createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Type,
		&entity.Price,
		&entity.Capacity,
		&entity.Description,
		&amenities,
		&images,
		&createdAt,
	)
	if err != nil {
		return domain.Room{}, err
	}
	if err := json.Unmarshal([]byte(amenities), &entity.Amenities); err != nil {
		return domain.Room{}, fmt.Errorf("room %s amenities: %w", entity.ID, err)
	}
	if err := json.Unmarshal([]byte(images), &entity.ImageURLs); err != nil {
		return domain.Room{}, fmt.Errorf("room %s images: %w", entity.ID, err)
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return entity, nil
}

func nonNilAmenities(a []domain.Amenity) []domain.Amenity {
	if a == nil {
		return []domain.Amenity{}
	}
	return a
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
