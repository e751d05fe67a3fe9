package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Language constants
const (
	LangCS = "cs"
	LangEN = "en"
)

// MaxDocumentBytes caps each language variant.
const MaxDocumentBytes = 256 * 1024

// Domain errors
var (
	ErrEmptyID       = errors.New("document id cannot be empty")
	ErrEmptyName     = errors.New("document name cannot be empty")
	ErrInvalidJSON   = errors.New("content is not valid JSON")
	ErrDocumentLarge = errors.New("content exceeds 256 KiB")
)

// Document is one editable website content file with a Czech and an English variant.
// Both variants hold JSON text.
type Document struct {
	ID         string
	Name       string
	Path       string
	CS         string
	EN         string
	LastEdited time.Time
}

// Validate checks the document metadata and that both variants are valid JSON.
// PRE: Document struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if _, err := Normalize(d.CS); err != nil {
		return fmt.Errorf("%s: %w", LangCS, err)
	}
	if _, err := Normalize(d.EN); err != nil {
		return fmt.Errorf("%s: %w", LangEN, err)
	}
	return nil
}

// Update replaces both language variants with their normalized form.
// PRE: cs and en are JSON text
// POST: on success CS/EN are 2-space indented and LastEdited is now
// INVARIANT: on error the document is unchanged
func (d *Document) Update(cs, en string, now time.Time) error {
	normCS, err := Normalize(cs)
	if err != nil {
		return fmt.Errorf("%s: %w", LangCS, err)
	}
	normEN, err := Normalize(en)
	if err != nil {
		return fmt.Errorf("%s: %w", LangEN, err)
	}
	d.CS = normCS
	d.EN = normEN
	d.LastEdited = now
	return nil
}

// Variant returns the content for lang, falling back to Czech.
func (d *Document) Variant(lang string) string {
	if lang == LangEN {
		return d.EN
	}
	return d.CS
}

// Normalize validates raw as JSON and re-indents it with two spaces.
// Key order is preserved.
func Normalize(raw string) (string, error) {
	if len(raw) > MaxDocumentBytes {
		return "", ErrDocumentLarge
	}
	if !json.Valid([]byte(raw)) {
		return "", ErrInvalidJSON
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(raw)), "", "  "); err != nil {
		return "", ErrInvalidJSON
	}
	return buf.String(), nil
}

// Seeds returns the website documents created on first start.
func Seeds(now time.Time) []Document {
	docs := []Document{
		{
			ID:   "home-hero",
			Name: "Homepage Hero Content",
			Path: "/content/home-hero.json",
			CS:   `{"title":"Vítejte v našem hotelu","subtitle":"Zažijte pohodlí a eleganci v srdci města","buttonText":"Rezervovat pokoj","buttonLink":"/rezervace","images":["/images/hero1.jpg","/images/hero2.jpg","/images/hero3.jpg"]}`,
			EN:   `{"title":"Welcome to our hotel","subtitle":"Experience comfort and elegance in the heart of the city","buttonText":"Book a room","buttonLink":"/reservation","images":["/images/hero1.jpg","/images/hero2.jpg","/images/hero3.jpg"]}`,
		},
		{
			ID:   "rooms-data",
			Name: "Rooms Data",
			Path: "/content/rooms.json",
			CS:   `{"rooms":[{"id":"standard","name":"Standardní pokoj","description":"Komfortní pokoj s veškerým základním vybavením","price":2500,"capacity":2,"amenities":["wifi","tv","bathroom","desk"]}]}`,
			EN:   `{"rooms":[{"id":"standard","name":"Standard Room","description":"Comfortable room with all basic amenities","price":2500,"capacity":2,"amenities":["wifi","tv","bathroom","desk"]}]}`,
		},
		{
			ID:   "contact-info",
			Name: "Contact Information",
			Path: "/content/contact.json",
			CS:   `{"address":"Václavské náměstí 1, Praha 1, 110 00","phone":"+420 123 456 789","email":"info@hotel.cz","openingHours":{"reception":"24/7","restaurant":"7:00 - 22:00"}}`,
			EN:   `{"address":"Wenceslas Square 1, Prague 1, 110 00","phone":"+420 123 456 789","email":"info@hotel.com","openingHours":{"reception":"24/7","restaurant":"7:00 - 22:00"}}`,
		},
	}
	for i := range docs {
		// Seeds are literals above; Update cannot fail on them.
		_ = docs[i].Update(docs[i].CS, docs[i].EN, now)
	}
	return docs
}
