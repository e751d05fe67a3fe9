package audit

import (
	"errors"
	"time"
)

// Category groups audit events by the kind of record they touch.
type Category string

const (
	CategoryAccount     Category = "account"
	CategoryRoom        Category = "room"
	CategoryReservation Category = "reservation"
	CategoryInquiry     Category = "inquiry"
	CategoryContent     Category = "content"
	CategoryOutbox      Category = "outbox"
	CategorySecurity    Category = "security"
)

// Action is what happened to the resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionLogin   Action = "login"
	ActionReply   Action = "reply"
	ActionRetry   Action = "retry"
	ActionAbandon Action = "abandon"
	ActionExport  Action = "export"
)

// Severity marks events worth a second look.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// MaxDescriptionLength caps the free-text part of an event.
const MaxDescriptionLength = 500

var (
	ErrEmptyID         = errors.New("audit event ID is required")
	ErrInvalidCategory = errors.New("unknown audit category")
	ErrEmptyAction     = errors.New("audit action is required")
	ErrInvalidSeverity = errors.New("unknown audit severity")
	ErrDescriptionLong = errors.New("audit description is too long")
	ErrZeroTimestamp   = errors.New("audit timestamp is required")
)

var validCategories = map[Category]bool{
	CategoryAccount: true, CategoryRoom: true, CategoryReservation: true, CategoryInquiry: true,
	CategoryContent: true, CategoryOutbox: true, CategorySecurity: true,
}

var validSeverities = map[Severity]bool{
	SeverityInfo: true, SeverityWarning: true, SeverityCritical: true,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	return validCategories[c]
}

// Event is one append-only audit trail entry.
type Event struct {
	ID          string
	Timestamp   time.Time
	Category    Category
	Action      Action
	Severity    Severity
	ActorID     string
	ActorEmail  string
	ResourceID  string
	Description string
	IPAddress   string
}

// NewEvent starts an info-level event.
func NewEvent(id string, at time.Time, category Category, action Action) Event {
	return Event{
		ID:        id,
		Timestamp: at,
		Category:  category,
		Action:    action,
		Severity:  SeverityInfo,
	}
}

// WithActor records who triggered the event.
func (e Event) WithActor(id, email string) Event {
	e.ActorID = id
	e.ActorEmail = email
	return e
}

// WithResource records the affected record.
func (e Event) WithResource(id string) Event {
	e.ResourceID = id
	return e
}

// WithSeverity overrides the default info level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithDescription attaches a short human-readable note, truncated to MaxDescriptionLength.
func (e Event) WithDescription(d string) Event {
	if r := []rune(d); len(r) > MaxDescriptionLength {
		d = string(r[:MaxDescriptionLength])
	}
	e.Description = d
	return e
}

// WithIP records the client address.
func (e Event) WithIP(ip string) Event {
	e.IPAddress = ip
	return e
}

// Validate checks the event before it is stored.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if !validCategories[e.Category] {
		return ErrInvalidCategory
	}
	if e.Action == "" {
		return ErrEmptyAction
	}
	if !validSeverities[e.Severity] {
		return ErrInvalidSeverity
	}
	if len([]rune(e.Description)) > MaxDescriptionLength {
		return ErrDescriptionLong
	}
	return nil
}
