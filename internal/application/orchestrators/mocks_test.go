package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hoteladmin/internal/adapters/email"
	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	"hoteladmin/internal/domain/account"
	"hoteladmin/internal/domain/content"
	"hoteladmin/internal/domain/inquiry"
	"hoteladmin/internal/domain/outbox"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func notFound(kind string) error {
	return fmt.Errorf("%s not found: %w", kind, sql.ErrNoRows)
}

// --- accounts ---

type mockAccountStore struct {
	byID map[string]account.Account
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{byID: map[string]account.Account{}}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return account.Account{}, notFound("account")
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return account.Account{}, notFound("account")
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.byID[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.byID), nil
}

// --- rooms ---

type mockRoomStore struct {
	rooms map[string]room.Room
}

func newMockRoomStore(rooms ...room.Room) *mockRoomStore {
	m := &mockRoomStore{rooms: map[string]room.Room{}}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *mockRoomStore) GetByID(_ context.Context, id string) (room.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return room.Room{}, notFound("room")
	}
	return r, nil
}

func (m *mockRoomStore) Save(_ context.Context, r room.Room) error {
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomStore) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

// --- reservations ---

type mockReservationStore struct {
	items map[string]reservation.Reservation
}

func newMockReservationStore(rs ...reservation.Reservation) *mockReservationStore {
	m := &mockReservationStore{items: map[string]reservation.Reservation{}}
	for _, r := range rs {
		m.items[r.ID] = r
	}
	return m
}

func (m *mockReservationStore) GetByID(_ context.Context, id string) (reservation.Reservation, error) {
	r, ok := m.items[id]
	if !ok {
		return reservation.Reservation{}, notFound("reservation")
	}
	return r, nil
}

func (m *mockReservationStore) Save(_ context.Context, r reservation.Reservation) error {
	m.items[r.ID] = r
	return nil
}

func (m *mockReservationStore) Insert(_ context.Context, r reservation.Reservation) error {
	for _, existing := range m.items {
		if existing.RoomID == r.RoomID && existing.Overlaps(r.StartDate, r.EndDate) {
			return reservationStore.ErrOverlap
		}
	}
	m.items[r.ID] = r
	return nil
}

func (m *mockReservationStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockReservationStore) List(_ context.Context, f reservationStore.ListFilter) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	for _, r := range m.items {
		if f.RoomID != "" && r.RoomID != f.RoomID {
			continue
		}
		if !f.From.IsZero() && !f.To.IsZero() && !r.Overlaps(f.From, f.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomID != out[j].RoomID {
			return out[i].RoomID < out[j].RoomID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// --- inquiries ---

type mockInquiryStore struct {
	items     map[string]inquiry.Inquiry
	deleteErr error
}

func newMockInquiryStore(qs ...inquiry.Inquiry) *mockInquiryStore {
	m := &mockInquiryStore{items: map[string]inquiry.Inquiry{}}
	for _, q := range qs {
		m.items[q.ID] = q
	}
	return m
}

func (m *mockInquiryStore) GetByID(_ context.Context, id string) (inquiry.Inquiry, error) {
	q, ok := m.items[id]
	if !ok {
		return inquiry.Inquiry{}, notFound("inquiry")
	}
	return q, nil
}

func (m *mockInquiryStore) Save(_ context.Context, q inquiry.Inquiry) error {
	m.items[q.ID] = q
	return nil
}

func (m *mockInquiryStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items, id)
	return nil
}

// --- content ---

type mockContentStore struct {
	docs map[string]content.Document
}

func newMockContentStore() *mockContentStore {
	return &mockContentStore{docs: map[string]content.Document{}}
}

func (m *mockContentStore) GetByID(_ context.Context, id string) (content.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return content.Document{}, notFound("content document")
	}
	return d, nil
}

func (m *mockContentStore) Save(_ context.Context, d content.Document) error {
	m.docs[d.ID] = d
	return nil
}

func (m *mockContentStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

// --- outbox ---

type mockOutboxStore struct {
	entries map[string]outbox.Entry
	saveErr error
}

func newMockOutboxStore(es ...outbox.Entry) *mockOutboxStore {
	m := &mockOutboxStore{entries: map[string]outbox.Entry{}}
	for _, e := range es {
		m.entries[e.ID] = e
	}
	return m
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return outbox.Entry{}, notFound("outbox entry")
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, e := range m.entries {
		if e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOutboxStore) ListFailed(_ context.Context, limit int) ([]outbox.Entry, error) {
	return m.List(context.Background(), outbox.StatusFailed, limit)
}

func (m *mockOutboxStore) List(_ context.Context, status string, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, e := range m.entries {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOutboxStore) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// --- images ---

type mockImageStore struct {
	saved   map[string][]byte
	deleted []string
	failOn  string
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{saved: map[string][]byte{}}
}

func (m *mockImageStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if m.failOn != "" && strings.Contains(name, m.failOn) {
		return "", errors.New("image must be JPEG, PNG or WebP")
	}
	url := "/room-images/" + name
	m.saved[url] = data
	return url, nil
}

func (m *mockImageStore) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	delete(m.saved, url)
	return nil
}

// --- email ---

type mockSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: fmt.Sprintf("msg-%d", len(m.sent)), SentAt: fixedTime}, nil
}
