// Package occupancy maps a room's reservations onto the days of a displayed month
// and assigns every reservation a stable color.
//
// Everything here is pure: callers hand in reservations already scoped to a single
// room plus the month cursor they are displaying, and get back a day-indexed view.
package occupancy

import (
	"time"

	"hoteladmin/internal/domain/reservation"
)

// Cursor is the month currently displayed by one room's calendar.
type Cursor struct {
	Month time.Month
	Year  int
}

// CursorFor returns the cursor of the month containing t.
func CursorFor(t time.Time) Cursor {
	return Cursor{Month: t.Month(), Year: t.Year()}
}

// Advance moves the cursor by delta months, rolling over year boundaries.
// Any delta is accepted; month 13 becomes January of the next year and month 0
// becomes December of the previous one.
func (c Cursor) Advance(delta int) Cursor {
	// Zero-based month index keeps the arithmetic in one floor division.
	idx := c.Year*12 + int(c.Month) - 1 + delta
	year := floorDiv(idx, 12)
	return Cursor{Month: time.Month(idx-year*12) + 1, Year: year}
}

// Normalize folds an out-of-range month into the 1..12 range.
func (c Cursor) Normalize() Cursor {
	return c.Advance(0)
}

// Bounds returns the first and last day of the cursor's month as UTC midnights.
func (c Cursor) Bounds() (time.Time, time.Time) {
	n := c.Normalize()
	first := time.Date(n.Year, n.Month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// String formats the cursor as YYYY-MM.
func (c Cursor) String() string {
	first, _ := c.Bounds()
	return first.Format("2006-01")
}

// ParseCursor parses a YYYY-MM value. An empty string yields fallback.
func ParseCursor(s string, fallback Cursor) (Cursor, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Cursor{}, err
	}
	return CursorFor(t), nil
}

// ResolveMonthDays returns every date of the month in ascending order, day 1 first.
func ResolveMonthDays(month time.Month, year int) []time.Time {
	first, last := Cursor{Month: month, Year: year}.Bounds()
	days := make([]time.Time, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FilterOverlappingMonth keeps the reservations whose inclusive range shares a day
// with [monthStart, monthEnd]. Input order is preserved.
func FilterOverlappingMonth(rs []reservation.Reservation, monthStart, monthEnd time.Time) []reservation.Reservation {
	out := make([]reservation.Reservation, 0, len(rs))
	for _, r := range rs {
		if r.Overlaps(monthStart, monthEnd) {
			out = append(out, r)
		}
	}
	return out
}

// ReservationForDate returns the first candidate, in input order, covering date.
// Overlapping candidates resolve to the earliest one in the slice.
func ReservationForDate(date time.Time, candidates []reservation.Reservation) (reservation.Reservation, bool) {
	for _, r := range candidates {
		if r.Covers(date) {
			return r, true
		}
	}
	return reservation.Reservation{}, false
}

// LeadingBlanks returns how many empty cells precede day 1 in a Monday-first grid.
func LeadingBlanks(month time.Month, year int) int {
	first, _ := Cursor{Month: month, Year: year}.Bounds()
	return (int(first.Weekday()) + 6) % 7
}

// Day is one calendar cell.
type Day struct {
	Date        time.Time
	Reservation *reservation.Reservation
	Color       ColorPair
}

// Reserved reports whether a reservation covers the day.
func (d Day) Reserved() bool {
	return d.Reservation != nil
}

// Month is the occupancy view of one room for one cursor.
type Month struct {
	Cursor        Cursor
	LeadingBlanks int
	Days          []Day
	Reservations  []reservation.Reservation
}

// BuildMonth maps one room's reservations onto the days of cursor's month.
// PRE: rs only contains reservations of a single room
// POST: len(Days) equals the number of days in the month
func BuildMonth(rs []reservation.Reservation, cursor Cursor, palette Palette) Month {
	cursor = cursor.Normalize()
	start, end := cursor.Bounds()
	candidates := FilterOverlappingMonth(rs, start, end)

	dates := ResolveMonthDays(cursor.Month, cursor.Year)
	days := make([]Day, len(dates))
	for i, date := range dates {
		days[i] = Day{Date: date}
		if r, ok := ReservationForDate(date, candidates); ok {
			days[i].Reservation = &r
			days[i].Color = ColorFor(r.ID, palette)
		}
	}

	return Month{
		Cursor:        cursor,
		LeadingBlanks: LeadingBlanks(cursor.Month, cursor.Year),
		Days:          days,
		Reservations:  candidates,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
