package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hoteladmin/internal/domain/content"
)

// TestExecuteSeedContent tests seeding only happens into an empty store.
func TestExecuteSeedContent(t *testing.T) {
	store := newMockContentStore()
	deps := ContentDeps{ContentStore: store, Now: fixedNow}

	if err := ExecuteSeedContent(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seeded := len(store.docs)
	if seeded == 0 {
		t.Fatal("expected seed documents")
	}

	doc := store.docs["home-hero"]
	doc.CS = `{"edited":true}`
	store.docs["home-hero"] = doc
	if err := ExecuteSeedContent(context.Background(), deps); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.docs) != seeded || store.docs["home-hero"].CS != `{"edited":true}` {
		t.Error("seeding must not overwrite existing content")
	}
}

// TestExecuteSaveContent tests both variants are normalised and saved together.
func TestExecuteSaveContent(t *testing.T) {
	store := newMockContentStore()
	deps := ContentDeps{ContentStore: store, Now: fixedNow}
	if err := ExecuteSeedContent(context.Background(), deps); err != nil {
		t.Fatalf("seed: %v", err)
	}
	later := fixedTime.Add(time.Hour)
	deps.Now = func() time.Time { return later }

	doc, err := ExecuteSaveContent(context.Background(), SaveContentInput{
		ID: "home-hero", CS: `{"title":"Vítejte"}`, EN: `{"title":"Welcome"}`,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.CS != "{\n  \"title\": \"Vítejte\"\n}" || !doc.LastEdited.Equal(later) {
		t.Errorf("doc = %+v", doc)
	}

	before := store.docs["home-hero"]
	_, err = ExecuteSaveContent(context.Background(), SaveContentInput{
		ID: "home-hero", CS: `{"title":"ok"}`, EN: `{"title":`,
	}, deps)
	if !errors.Is(err, content.ErrInvalidJSON) || !strings.HasPrefix(err.Error(), "en: ") {
		t.Errorf("err = %v, want en: invalid JSON", err)
	}
	if store.docs["home-hero"].CS != before.CS {
		t.Error("a failed save must not change either variant")
	}

	if _, err := ExecuteSaveContent(context.Background(), SaveContentInput{ID: "missing", CS: "{}", EN: "{}"}, deps); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}
