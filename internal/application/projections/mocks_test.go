package projections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hoteladmin/internal/adapters/storage/reservation"
	domainInquiry "hoteladmin/internal/domain/inquiry"
	domainOutbox "hoteladmin/internal/domain/outbox"
	domainReservation "hoteladmin/internal/domain/reservation"
	domainRoom "hoteladmin/internal/domain/room"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type mockRoomStore struct {
	rooms []domainRoom.Room
}

// GetByID returns a seeded room by ID.
func (m *mockRoomStore) GetByID(_ context.Context, id string) (domainRoom.Room, error) {
	for _, r := range m.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domainRoom.Room{}, fmt.Errorf("room not found: %w", sql.ErrNoRows)
}

// List returns all seeded rooms in seed order.
func (m *mockRoomStore) List(_ context.Context) ([]domainRoom.Room, error) {
	return m.rooms, nil
}

type mockReservationStore struct {
	reservations []domainReservation.Reservation
	filters      []reservation.ListFilter
	err          error
}

// List returns seeded reservations passing the filter and records the filter.
func (m *mockReservationStore) List(_ context.Context, f reservation.ListFilter) ([]domainReservation.Reservation, error) {
	m.filters = append(m.filters, f)
	if m.err != nil {
		return nil, m.err
	}
	var out []domainReservation.Reservation
	for _, r := range m.reservations {
		if f.RoomID != "" && r.RoomID != f.RoomID {
			continue
		}
		if !f.From.IsZero() && !r.Overlaps(f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type mockInquiryStore struct {
	inquiries []domainInquiry.Inquiry
}

// List returns seeded inquiries of the requested type in seed order.
func (m *mockInquiryStore) List(_ context.Context, typeFilter string) ([]domainInquiry.Inquiry, error) {
	var out []domainInquiry.Inquiry
	for _, q := range m.inquiries {
		if typeFilter == "" || typeFilter == domainInquiry.FilterAll || q.Type == typeFilter {
			out = append(out, q)
		}
	}
	return out, nil
}

// CountUnread counts seeded inquiries not yet read.
func (m *mockInquiryStore) CountUnread(_ context.Context) (int, error) {
	n := 0
	for _, q := range m.inquiries {
		if !q.IsRead {
			n++
		}
	}
	return n, nil
}

type mockOutboxStore struct {
	entries   []domainOutbox.Entry
	lastLimit int
}

// List returns seeded entries with the given status.
func (m *mockOutboxStore) List(_ context.Context, status string, limit int) ([]domainOutbox.Entry, error) {
	m.lastLimit = limit
	var out []domainOutbox.Entry
	for _, e := range m.entries {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}
