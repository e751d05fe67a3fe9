package projections

import (
	"context"

	"hoteladmin/internal/adapters/storage/reservation"
	domainInquiry "hoteladmin/internal/domain/inquiry"
	domainOutbox "hoteladmin/internal/domain/outbox"
	domainReservation "hoteladmin/internal/domain/reservation"
	domainRoom "hoteladmin/internal/domain/room"
)

// RoomStore interface for room queries.
type RoomStore interface {
	GetByID(ctx context.Context, id string) (domainRoom.Room, error)
	List(ctx context.Context) ([]domainRoom.Room, error)
}

// ReservationStore interface for reservation queries.
type ReservationStore interface {
	List(ctx context.Context, filter reservation.ListFilter) ([]domainReservation.Reservation, error)
}

// InquiryStore interface for inquiry queries.
type InquiryStore interface {
	List(ctx context.Context, typeFilter string) ([]domainInquiry.Inquiry, error)
	CountUnread(ctx context.Context) (int, error)
}

// OutboxStore interface for outbox queries.
type OutboxStore interface {
	List(ctx context.Context, status string, limit int) ([]domainOutbox.Entry, error)
}
