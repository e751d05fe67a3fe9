package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomDoubleBooked    = errors.New("room is already reserved for part of these dates")
)

// RoomLookup is the room read access needed when booking.
type RoomLookup interface {
	GetByID(ctx context.Context, id string) (room.Room, error)
}

// ReservationStoreForCreate defines the store interface needed by CreateReservation.
type ReservationStoreForCreate interface {
	// Insert must reject an overlapping stay with reservationStore.ErrOverlap atomically.
	Insert(ctx context.Context, r reservation.Reservation) error
}

// CreateReservationInput carries the booking form. Dates are YYYY-MM-DD.
type CreateReservationInput struct {
	FirstName string
	LastName  string
	Email     string
	StartDate string
	EndDate   string
	RoomID    string
}

// CreateReservationDeps holds dependencies for CreateReservation.
type CreateReservationDeps struct {
	ReservationStore ReservationStoreForCreate
	RoomStore        RoomLookup
	GenerateID       func() string
	Now              func() time.Time
}

// ExecuteCreateReservation books a room.
// PRE: input comes from the reservation form
// POST: reservation persisted, or a validation, ErrRoomNotFound or ErrRoomDoubleBooked error
// INVARIANT: no two stored reservations of one room share a date when created through here
func ExecuteCreateReservation(ctx context.Context, input CreateReservationInput, deps CreateReservationDeps) (reservation.Reservation, error) {
	r := reservation.Reservation{
		ID:        deps.GenerateID(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		RoomID:    input.RoomID,
		CreatedAt: deps.Now(),
	}
	if input.StartDate != "" {
		start, err := reservation.ParseDate(input.StartDate)
		if err != nil {
			return reservation.Reservation{}, fmt.Errorf("start date: %w", err)
		}
		r.StartDate = start
	}
	if input.EndDate != "" {
		end, err := reservation.ParseDate(input.EndDate)
		if err != nil {
			return reservation.Reservation{}, fmt.Errorf("end date: %w", err)
		}
		r.EndDate = end
	}
	if err := r.Validate(); err != nil {
		return reservation.Reservation{}, err
	}

	if _, err := deps.RoomStore.GetByID(ctx, r.RoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservation.Reservation{}, ErrRoomNotFound
		}
		return reservation.Reservation{}, err
	}

	if err := deps.ReservationStore.Insert(ctx, r); err != nil {
		if errors.Is(err, reservationStore.ErrOverlap) {
			slog.Info("reservation_event", "event", "rejected_overlap", "room_id", r.RoomID,
				"start", r.StartDate.Format(reservation.DateLayout), "end", r.EndDate.Format(reservation.DateLayout))
			return reservation.Reservation{}, ErrRoomDoubleBooked
		}
		return reservation.Reservation{}, err
	}

	slog.Info("reservation_event", "event", "created", "id", r.ID, "room_id", r.RoomID,
		"start", r.StartDate.Format(reservation.DateLayout), "end", r.EndDate.Format(reservation.DateLayout))
	return r, nil
}

// ReservationStoreForDelete defines the store interface needed by DeleteReservation.
type ReservationStoreForDelete interface {
	GetByID(ctx context.Context, id string) (reservation.Reservation, error)
	Delete(ctx context.Context, id string) error
}

// DeleteReservationDeps holds dependencies for DeleteReservation.
type DeleteReservationDeps struct {
	ReservationStore ReservationStoreForDelete
}

// ExecuteDeleteReservation cancels a reservation.
// POST: reservation removed, or ErrReservationNotFound
func ExecuteDeleteReservation(ctx context.Context, id string, deps DeleteReservationDeps) error {
	if _, err := deps.ReservationStore.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if err := deps.ReservationStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("reservation_event", "event", "deleted", "id", id)
	return nil
}
