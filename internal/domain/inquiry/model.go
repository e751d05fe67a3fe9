package inquiry

import (
	"errors"
	"strings"
	"time"
)

// Inquiry type constants, as submitted by the website contact form.
const (
	TypeReservation = "rezervace"
	TypeSpecial     = "special"
	TypeServices    = "sluzby"
	TypeFeedback    = "vazba"
	TypeOther       = "ostani"
)

// FilterAll disables type filtering in list queries.
const FilterAll = "all"

// ValidTypes contains all valid inquiry types.
var ValidTypes = []string{TypeReservation, TypeSpecial, TypeServices, TypeFeedback, TypeOther}

// TypeLabels maps inquiry types to their admin labels.
var TypeLabels = map[string]string{
	TypeReservation: "Rezervace",
	TypeSpecial:     "Speciální požadavek",
	TypeServices:    "Služby",
	TypeFeedback:    "Zpětná vazba",
	TypeOther:       "Ostatní",
}

// Max length constants
const (
	MaxEmailLength   = 254
	MaxMessageLength = 5000
	MaxReplyLength   = 20000
)

// Domain errors
var (
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrInvalidEmail      = errors.New("email must contain '@'")
	ErrEmailTooLong      = errors.New("email cannot exceed 254 characters")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrMessageTooLong    = errors.New("message cannot exceed 5000 characters")
	ErrInvalidType       = errors.New("type must be one of: rezervace, special, sluzby, vazba, ostani")
	ErrEmptyReply        = errors.New("reply body cannot be empty")
	ErrReplyTooLong      = errors.New("reply body cannot exceed 20000 characters")
	ErrInvalidTypeFilter = errors.New("unknown inquiry type filter")
)

// Inquiry is a message sent by a guest through the public website.
type Inquiry struct {
	ID        string
	Email     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}

// Validate checks if the Inquiry has valid data.
// PRE: Inquiry struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Inquiry) Validate() error {
	email := strings.TrimSpace(i.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(i.Message) == "" {
		return ErrEmptyMessage
	}
	if len(i.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if !IsValidType(i.Type) {
		return ErrInvalidType
	}
	return nil
}

// MarkRead flags the inquiry as seen by staff. Calling it twice is a no-op.
func (i *Inquiry) MarkRead() {
	i.IsRead = true
}

// TypeLabel returns the admin label for the inquiry type.
func (i *Inquiry) TypeLabel() string {
	if l, ok := TypeLabels[i.Type]; ok {
		return l
	}
	return i.Type
}

// Matches reports whether the inquiry passes a free-text search and a type filter.
// Search is case-insensitive over email and message; an empty search matches all.
// An empty or "all" type filter matches every type.
func (i *Inquiry) Matches(search, typeFilter string) bool {
	if typeFilter != "" && typeFilter != FilterAll && i.Type != typeFilter {
		return false
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Email), search) ||
		strings.Contains(strings.ToLower(i.Message), search)
}

// ValidateReply checks a staff reply body.
func ValidateReply(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyReply
	}
	if len(body) > MaxReplyLength {
		return ErrReplyTooLong
	}
	return nil
}

// ValidateTypeFilter accepts "", "all" or a known type.
func ValidateTypeFilter(f string) error {
	if f == "" || f == FilterAll || IsValidType(f) {
		return nil
	}
	return ErrInvalidTypeFilter
}

// IsValidType reports whether t is a known inquiry type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
