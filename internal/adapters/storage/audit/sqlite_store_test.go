package audit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/audit"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(openTestDB(t))
	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	events := []domain.Event{
		domain.NewEvent("e1", base, domain.CategorySecurity, domain.ActionLogin).WithActor("acc-1", "admin@hotel.cz").WithIP("10.0.0.1"),
		domain.NewEvent("e2", base.Add(time.Minute), domain.CategoryReservation, domain.ActionCreate).WithActor("acc-2", "recepce@hotel.cz").WithResource("res-1"),
		domain.NewEvent("e3", base.Add(2*time.Minute), domain.CategoryReservation, domain.ActionDelete).WithActor("acc-2", "recepce@hotel.cz").WithResource("res-1").WithSeverity(domain.SeverityWarning),
	}
	for _, e := range events {
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save(%s): %v", e.ID, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		limit  int
		want   []string
	}{
		{"all newest first", Filter{}, 10, []string{"e3", "e2", "e1"}},
		{"limit", Filter{}, 1, []string{"e3"}},
		{"category", Filter{Category: domain.CategoryReservation}, 10, []string{"e3", "e2"}},
		{"action", Filter{Action: domain.ActionLogin}, 10, []string{"e1"}},
		{"actor", Filter{ActorID: "acc-2"}, 10, []string{"e3", "e2"}},
		{"resource and severity", Filter{ResourceID: "res-1", Severity: domain.SeverityWarning}, 10, []string{"e3"}},
		{"time window", Filter{From: base.Add(30 * time.Second), To: base.Add(90 * time.Second)}, 10, []string{"e2"}},
		{"no match", Filter{Category: domain.CategoryContent}, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("event %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSQLiteStore_GetByID(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(openTestDB(t))
	at := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	want := domain.NewEvent("e1", at, domain.CategoryInquiry, domain.ActionReply).
		WithActor("acc-1", "admin@hotel.cz").WithResource("inq-1").WithDescription("odpověď odeslána")

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.GetByID(ctx, "e1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, at)
	}
	got.Timestamp = want.Timestamp
	if got != want {
		t.Errorf("GetByID = %+v, want %+v", got, want)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing event err = %v, want sql.ErrNoRows", err)
	}
}
