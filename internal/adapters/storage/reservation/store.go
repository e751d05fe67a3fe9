package reservation

import (
	"context"
	"errors"
	"time"

	domain "hoteladmin/internal/domain/reservation"
)

// Store persists Reservation state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Reservation, error)
	Save(ctx context.Context, value domain.Reservation) error
	// Insert adds a new reservation unless its room is already booked on one of its dates.
	// POST: returns ErrOverlap and stores nothing when the closed date ranges intersect
	Insert(ctx context.Context, value domain.Reservation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Reservation, error)
}

// ErrOverlap is returned by Insert when the room is taken for part of the stay.
var ErrOverlap = errors.New("reservation overlaps an existing one for the room")

// ListFilter narrows List results. Zero values disable a condition.
// From and To select reservations overlapping [From, To], compared by date.
type ListFilter struct {
	RoomID string
	From   time.Time
	To     time.Time
}
