package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hoteladmin/internal/adapters/http/middleware"
	"hoteladmin/internal/adapters/images"
	"hoteladmin/internal/adapters/storage"
	accountStore "hoteladmin/internal/adapters/storage/account"
	auditStore "hoteladmin/internal/adapters/storage/audit"
	contentStore "hoteladmin/internal/adapters/storage/content"
	inquiryStore "hoteladmin/internal/adapters/storage/inquiry"
	outboxStore "hoteladmin/internal/adapters/storage/outbox"
	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	roomStore "hoteladmin/internal/adapters/storage/room"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

var (
	adminSession = middleware.Session{AccountID: "acc-admin", Email: "admin@hotel.test", Role: "admin"}
	staffSession = middleware.Session{AccountID: "acc-staff", Email: "staff@hotel.test", Role: "staff"}
)

// newTestServer builds a Server over a fresh in-memory database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	imageDir := t.TempDir()
	imgs, err := images.NewLocalStore(imageDir, ImageURLPrefix)
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	var seq atomic.Int64
	return NewServer(Stores{
		AccountStore:     accountStore.NewSQLiteStore(db),
		RoomStore:        roomStore.NewSQLiteStore(db),
		ReservationStore: reservationStore.NewSQLiteStore(db),
		InquiryStore:     inquiryStore.NewSQLiteStore(db),
		ContentStore:     contentStore.NewSQLiteStore(db),
		OutboxStore:      outboxStore.NewSQLiteStore(db),
		AuditStore:       auditStore.NewSQLiteStore(db),
	}, Options{
		CSRFKey:  []byte("0123456789abcdef0123456789abcdef"),
		Images:   imgs,
		ImageDir: imageDir,
		Now:      func() time.Time { return testNow },
		GenerateID: func() string {
			return fmt.Sprintf("id-%d", seq.Add(1))
		},
	})
}

// authRequest builds a request carrying sess in its context.
func authRequest(method, target, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedRoom(t *testing.T, s *Server, id, name string) room.Room {
	t.Helper()
	rm := room.Room{ID: id, Name: name, Type: room.TypeDouble, Price: 2000, Capacity: 2, CreatedAt: testNow}
	if err := s.stores.RoomStore.Save(context.Background(), rm); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return rm
}

func seedReservation(t *testing.T, s *Server, id, roomID string, start, end time.Time) reservation.Reservation {
	t.Helper()
	r := reservation.Reservation{
		ID: id, FirstName: "Jana", LastName: "Nováková", Email: "jana@example.com",
		StartDate: start, EndDate: end, RoomID: roomID, CreatedAt: testNow,
	}
	if err := s.stores.ReservationStore.Save(context.Background(), r); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return r
}
