package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/reservation"
)

func openTestDB(t *testing.T) *sql.DB {
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
	for _, id := range []string{"r1", "r2"} {
		if _, err := db.Exec(`INSERT INTO room (id, name, type, price, created_at) VALUES (?, ?, 'double', 2000, '2024-01-01T00:00:00Z')`, id, id); err != nil {
			t.Fatalf("seed room: %v", err)
		}
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func res(id, room string, start, end time.Time) domain.Reservation {
	return domain.Reservation{
		ID: id, FirstName: "Jan", LastName: "Novák", Email: "jan@example.com",
		StartDate: start, EndDate: end, RoomID: room, CreatedAt: start,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	r := res("42", "r1", date(2024, 6, 10), date(2024, 6, 15))
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.GetByID(ctx, "42")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.StartDate.Equal(r.StartDate) || !got.EndDate.Equal(r.EndDate) || got.RoomID != "r1" {
		t.Errorf("got %+v", got)
	}

	if err := store.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "42"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after delete err = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteStore_InsertRejectsOverlap(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	if err := store.Insert(ctx, res("a", "r1", date(2024, 6, 10), date(2024, 6, 15))); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tests := []struct {
		name    string
		r       domain.Reservation
		wantErr error
	}{
		{"same dates", res("b", "r1", date(2024, 6, 10), date(2024, 6, 15)), ErrOverlap},
		{"shares checkout day", res("c", "r1", date(2024, 6, 15), date(2024, 6, 18)), ErrOverlap},
		{"inside", res("d", "r1", date(2024, 6, 11), date(2024, 6, 12)), ErrOverlap},
		{"other room", res("e", "r2", date(2024, 6, 10), date(2024, 6, 15)), nil},
		{"day after", res("f", "r1", date(2024, 6, 16), date(2024, 6, 20)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Insert(ctx, tt.r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Insert err = %v, want %v", err, tt.wantErr)
			}
			_, getErr := store.GetByID(ctx, tt.r.ID)
			if stored := getErr == nil; stored != (tt.wantErr == nil) {
				t.Errorf("stored = %v, want %v", stored, tt.wantErr == nil)
			}
		})
	}
}

func TestSQLiteStore_InsertConcurrentSameDates(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Insert(ctx, res(fmt.Sprintf("id-%d", i), "r1", date(2024, 7, 1), date(2024, 7, 5)))
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOverlap):
		default:
			t.Errorf("worker %d: unexpected error %v", i, err)
		}
	}
	if ok != 1 {
		t.Errorf("successful inserts = %d, want 1", ok)
	}
	got, err := store.List(ctx, ListFilter{RoomID: "r1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("stored reservations = %d, want 1", len(got))
	}
}

func TestSQLiteStore_SaveUnknownRoom(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	err := store.Save(context.Background(), res("1", "nope", date(2024, 6, 1), date(2024, 6, 2)))
	if err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestSQLiteStore_ListFilter(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	for _, r := range []domain.Reservation{
		res("may", "r1", date(2024, 5, 20), date(2024, 5, 25)),
		res("edge", "r2", date(2024, 5, 30), date(2024, 6, 1)),
		res("june", "r1", date(2024, 6, 10), date(2024, 6, 15)),
		res("july", "r2", date(2024, 7, 1), date(2024, 7, 3)),
	} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save %s: %v", r.ID, err)
		}
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"may", "june", "edge", "july"}},
		{"room", ListFilter{RoomID: "r2"}, []string{"edge", "july"}},
		{"june window", ListFilter{From: date(2024, 6, 1), To: date(2024, 6, 30)}, []string{"june", "edge"}},
		{"july first day", ListFilter{From: date(2024, 7, 1), To: date(2024, 7, 1)}, []string{"july"}},
		{"room and window", ListFilter{RoomID: "r1", From: date(2024, 6, 1), To: date(2024, 6, 30)}, []string{"june"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d reservations, want %v", len(got), tc.want)
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
