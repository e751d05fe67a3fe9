package content

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hoteladmin/internal/adapters/storage"
	domain "hoteladmin/internal/domain/content"
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

func TestSQLiteStore_SeedsRoundTrip(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	for _, doc := range domain.Seeds(now) {
		if err := store.Save(ctx, doc); err != nil {
			t.Fatalf("Save %s: %v", doc.ID, err)
		}
	}
	n, err := store.Count(ctx)
	if err != nil || n != len(domain.Seeds(now)) {
		t.Fatalf("Count = %d, %v", n, err)
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, d := range docs {
		if d.CS == "" || d.EN == "" || !d.LastEdited.Equal(now) {
			t.Errorf("document %s not round-tripped: %+v", d.ID, d)
		}
	}
}

func TestSQLiteStore_UpdateBothVariants(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	doc := domain.Seeds(now)[0]
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := doc.Update(`{"title":"Vítejte"}`, `{"title":"Welcome"}`, now.Add(time.Hour)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := store.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CS != doc.CS || got.EN != doc.EN || !got.LastEdited.Equal(now.Add(time.Hour)) {
		t.Errorf("got %+v, want %+v", got, doc)
	}
	if _, err := store.GetByID(ctx, "missing"); err == nil {
		t.Error("expected not found")
	}
}
