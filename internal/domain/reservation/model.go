package reservation

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the storage and wire format for reservation dates.
const DateLayout = "2006-01-02"

// Max length constants for guest-entered fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Domain errors
var (
	ErrEmptyFirstName = errors.New("guest first name cannot be empty")
	ErrEmptyLastName  = errors.New("guest last name cannot be empty")
	ErrNameTooLong    = errors.New("guest name cannot exceed 100 characters")
	ErrInvalidEmail   = errors.New("guest email must contain '@'")
	ErrEmailTooLong   = errors.New("guest email cannot exceed 254 characters")
	ErrEmptyStartDate = errors.New("start date is required")
	ErrEmptyEndDate   = errors.New("end date is required")
	ErrInvalidDates   = errors.New("end date cannot be before start date")
	ErrEmptyRoomID    = errors.New("room is required")
)

// Reservation is a booking of one room over an inclusive date range.
// INVARIANT: StartDate <= EndDate once validated. Stored rows are not re-validated,
// so readers must tolerate EndDate < StartDate.
type Reservation struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	StartDate time.Time
	EndDate   time.Time
	RoomID    string
	CreatedAt time.Time
}

// Validate checks the reservation's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (r *Reservation) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(r.LastName) == "" {
		return ErrEmptyLastName
	}
	if len(r.FirstName) > MaxNameLength || len(r.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if len(r.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if r.StartDate.IsZero() {
		return ErrEmptyStartDate
	}
	if r.EndDate.IsZero() {
		return ErrEmptyEndDate
	}
	if DateOf(r.EndDate).Before(DateOf(r.StartDate)) {
		return ErrInvalidDates
	}
	if r.RoomID == "" {
		return ErrEmptyRoomID
	}
	return nil
}

// FullName returns "First Last".
func (r *Reservation) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Covers reports whether date falls within [StartDate, EndDate], compared by calendar day.
// INVARIANT: Reservation fields are not mutated
func (r *Reservation) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(r.StartDate)) && !d.After(DateOf(r.EndDate))
}

// Overlaps reports whether the reservation shares at least one day with [from, to].
// INVARIANT: Reservation fields are not mutated
func (r *Reservation) Overlaps(from, to time.Time) bool {
	return !DateOf(r.StartDate).After(DateOf(to)) && !DateOf(r.EndDate).Before(DateOf(from))
}

// Nights returns the number of nights between check-in and check-out.
// A same-day reservation has zero nights.
func (r *Reservation) Nights() int {
	n := int(DateOf(r.EndDate).Sub(DateOf(r.StartDate)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// NightsWithin counts the nights of the stay whose date falls in [from, to].
// The night of day d is spent from d to d+1, so the end date itself is never counted.
func (r *Reservation) NightsWithin(from, to time.Time) int {
	first := DateOf(r.StartDate)
	if f := DateOf(from); f.After(first) {
		first = f
	}
	last := DateOf(r.EndDate).AddDate(0, 0, -1)
	if t := DateOf(to); t.Before(last) {
		last = t
	}
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// DateOf truncates t to its calendar day as a UTC midnight.
// The wall-clock date of t is kept regardless of its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
