package web

import (
	"html/template"
	"strings"

	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/reservation"
)

// WeekdayHeader is the Monday-first column header of the calendar grid.
var WeekdayHeader = [7]string{"Po", "Út", "St", "Čt", "Pá", "So", "Ne"}

// CalendarDayView is one grid cell.
type CalendarDayView struct {
	Date           string
	Day            int
	ReservationID  string
	GuestName      string
	Background     string
	Foreground     string
	DarkBackground string
	DarkForeground string
}

// CalendarReservationView is one entry of the per-room reservation list.
type CalendarReservationView struct {
	ID         string
	GuestName  string
	Email      string
	StartDate  string
	EndDate    string
	Nights     int
	Background string
	Foreground string
}

// RoomCalendarView is one room's month.
type RoomCalendarView struct {
	RoomID        string
	RoomName      string
	RoomType      string
	Description   string
	LeadingBlanks int
	Days          []CalendarDayView
	Reservations  []CalendarReservationView
}

// CalendarView is the rendered form of a calendar projection.
type CalendarView struct {
	Month   string
	Prev    string
	Next    string
	Weekday [7]string
	Rooms   []RoomCalendarView
}

func newCalendarView(res projections.CalendarResult, palette occupancy.Palette) CalendarView {
	v := CalendarView{
		Month:   res.Cursor.String(),
		Prev:    res.Prev.String(),
		Next:    res.Next.String(),
		Weekday: WeekdayHeader,
		Rooms:   make([]RoomCalendarView, 0, len(res.Rooms)),
	}
	for _, rc := range res.Rooms {
		rv := RoomCalendarView{
			RoomID:        rc.Room.ID,
			RoomName:      rc.Room.Name,
			RoomType:      rc.Room.TypeLabel(),
			Description:   rc.Room.Description,
			LeadingBlanks: rc.Month.LeadingBlanks,
			Days:          make([]CalendarDayView, len(rc.Month.Days)),
			Reservations:  make([]CalendarReservationView, 0, len(rc.Month.Reservations)),
		}
		for i, d := range rc.Month.Days {
			dv := CalendarDayView{Date: d.Date.Format(reservation.DateLayout), Day: d.Date.Day()}
			if d.Reserved() {
				dv.ReservationID = d.Reservation.ID
				dv.GuestName = d.Reservation.FullName()
				dv.Background = d.Color.Background
				dv.Foreground = d.Color.Foreground
				dv.DarkBackground = d.Color.DarkBackground()
				dv.DarkForeground = d.Color.DarkForeground()
			}
			rv.Days[i] = dv
		}
		for _, r := range rc.Month.Reservations {
			c := occupancy.ColorFor(r.ID, palette)
			rv.Reservations = append(rv.Reservations, CalendarReservationView{
				ID:         r.ID,
				GuestName:  r.FullName(),
				Email:      r.Email,
				StartDate:  r.StartDate.Format(reservation.DateLayout),
				EndDate:    r.EndDate.Format(reservation.DateLayout),
				Nights:     r.Nights(),
				Background: c.Background,
				Foreground: c.Foreground,
			})
		}
		v.Rooms = append(v.Rooms, rv)
	}
	return v
}

// hueColors holds the 100, 700 and 800 shades of each palette hue.
var hueColors = map[string][3]string{
	"blue":    {"#dbeafe", "#1d4ed8", "#1e40af"},
	"green":   {"#dcfce7", "#15803d", "#166534"},
	"purple":  {"#f3e8ff", "#7e22ce", "#6b21a8"},
	"orange":  {"#ffedd5", "#c2410c", "#9a3412"},
	"pink":    {"#fce7f3", "#be185d", "#9d174d"},
	"teal":    {"#ccfbf1", "#0f766e", "#115e59"},
	"indigo":  {"#e0e7ff", "#4338ca", "#3730a3"},
	"amber":   {"#fef3c7", "#b45309", "#92400e"},
	"cyan":    {"#cffafe", "#0e7490", "#155e75"},
	"rose":    {"#ffe4e6", "#be123c", "#9f1239"},
	"violet":  {"#ede9fe", "#6d28d9", "#5b21b6"},
	"emerald": {"#d1fae5", "#047857", "#065f46"},
}

// paletteCSS renders the class rules for every palette pair with a known hue.
// Dark variants apply under prefers-color-scheme: dark.
func paletteCSS(palette occupancy.Palette) template.CSS {
	var light, dark strings.Builder
	for _, c := range palette {
		shades, ok := hueColors[c.Hue()]
		if !ok {
			continue
		}
		light.WriteString("." + c.Background + "{background:" + shades[0] + "}")
		light.WriteString("." + c.Foreground + "{color:" + shades[1] + "}")
		dark.WriteString("." + cssEscape(c.DarkBackground()) + "{background:" + shades[2] + "}")
		dark.WriteString("." + cssEscape(c.DarkForeground()) + "{color:" + shades[0] + "}")
	}
	if dark.Len() == 0 {
		return template.CSS(light.String())
	}
	return template.CSS(light.String() + "@media (prefers-color-scheme: dark){" + dark.String() + "}")
}

func cssEscape(class string) string {
	return strings.ReplaceAll(class, ":", `\:`)
}
