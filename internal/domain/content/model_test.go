package content

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestNormalize tests indentation and rejection of invalid JSON.
func TestNormalize(t *testing.T) {
	got, err := Normalize(`{"b":1,"a":[true,null]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	for _, bad := range []string{"", "{", `{"a":}`, "nope"} {
		if _, err := Normalize(bad); err != ErrInvalidJSON {
			t.Errorf("Normalize(%q) = %v, want ErrInvalidJSON", bad, err)
		}
	}

	if _, err := Normalize(`"` + strings.Repeat("a", MaxDocumentBytes) + `"`); err != ErrDocumentLarge {
		t.Errorf("expected ErrDocumentLarge, got %v", err)
	}
}

// TestDocument_Update tests both variants are validated before anything changes.
func TestDocument_Update(t *testing.T) {
	orig := time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC)
	d := Document{ID: "x", Name: "X", CS: "{}", EN: "{}", LastEdited: orig}

	err := d.Update(`{"ok":1}`, `{broken`, time.Now())
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "en:") {
		t.Errorf("expected error to name the en variant, got %q", err)
	}
	if d.CS != "{}" || !d.LastEdited.Equal(orig) {
		t.Fatal("document must be unchanged after a failed update")
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := d.Update(`{"a":1}`, `{"a":2}`, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.CS != "{\n  \"a\": 1\n}" || d.EN != "{\n  \"a\": 2\n}" {
		t.Fatalf("unexpected content %q / %q", d.CS, d.EN)
	}
	if !d.LastEdited.Equal(now) {
		t.Fatalf("LastEdited not updated")
	}
}

// TestDocument_Validate tests metadata checks.
func TestDocument_Validate(t *testing.T) {
	d := Document{ID: "", Name: "X", CS: "{}", EN: "{}"}
	if err := d.Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	d.ID, d.Name = "x", ""
	if err := d.Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	d.Name, d.CS = "X", "["
	if err := d.Validate(); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

// TestSeeds tests the seeded documents are valid and indented.
func TestSeeds(t *testing.T) {
	now := time.Now()
	seeds := Seeds(now)
	ids := map[string]bool{}
	for _, d := range seeds {
		ids[d.ID] = true
		if err := d.Validate(); err != nil {
			t.Errorf("seed %s invalid: %v", d.ID, err)
		}
		if !strings.Contains(d.CS, "\n  ") {
			t.Errorf("seed %s not indented", d.ID)
		}
		if !d.LastEdited.Equal(now) {
			t.Errorf("seed %s LastEdited not set", d.ID)
		}
	}
	for _, id := range []string{"home-hero", "rooms-data", "contact-info"} {
		if !ids[id] {
			t.Errorf("missing seed %s", id)
		}
	}
}

// TestDocument_Variant tests language selection.
func TestDocument_Variant(t *testing.T) {
	d := Document{CS: "cs", EN: "en"}
	if d.Variant(LangEN) != "en" || d.Variant("de") != "cs" {
		t.Fatal("unexpected variant selection")
	}
}
