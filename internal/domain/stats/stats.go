// Package stats derives the dashboard datasets from rooms and reservations.
package stats

import (
	"errors"
	"math"
	"time"

	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
)

// Window limits
const (
	DefaultMonths = 6
	MaxMonths     = 24
)

// ErrInvalidMonths is returned for a window outside 1..MaxMonths.
var ErrInvalidMonths = errors.New("months must be between 1 and 24")

// MonthLabels are the short Czech month names used on the dashboard.
var MonthLabels = [12]string{"Led", "Úno", "Bře", "Dub", "Kvě", "Čvn", "Čvc", "Srp", "Zář", "Říj", "Lis", "Pro"}

// MonthPoint holds one month of the booking, occupancy and price series.
type MonthPoint struct {
	Month        string // YYYY-MM
	Label        string
	Bookings     int // reservations starting in the month
	Revenue      int // CZK, booked nights in the month times room price
	WeekdayPct   int // booked room-nights starting on Mon-Fri over available ones
	WeekendPct   int
	OccupancyPct int
	AvgPriceFor  map[string]int // room type -> realised average nightly price
}

// TypeRevenue is the revenue of one room type across the window.
type TypeRevenue struct {
	Type         string
	Label        string
	Rooms        int
	Revenue      int
	AveragePrice int // mean list price of rooms of this type
}

// Summary compares the last month of the window with the one before it.
type Summary struct {
	Bookings            int
	Revenue             int
	OccupancyPct        int
	BookingsChangePct   float64
	RevenueChangePct    float64
	OccupancyChangePct  float64
	TotalWindowBookings int
	TotalWindowRevenue  int
}

// Dashboard is the full statistics view for a window of months.
type Dashboard struct {
	From    occupancy.Cursor
	To      occupancy.Cursor
	Months  []MonthPoint
	ByType  []TypeRevenue
	Summary Summary
}

// Compute builds the dashboard for the months consecutive months ending at end.
// PRE: months in 1..MaxMonths
// POST: len(Months) == months, ordered oldest first
func Compute(rooms []room.Room, rs []reservation.Reservation, end occupancy.Cursor, months int) (Dashboard, error) {
	if months < 1 || months > MaxMonths {
		return Dashboard{}, ErrInvalidMonths
	}
	end = end.Normalize()
	start := end.Advance(-(months - 1))

	byRoom := make(map[string][]reservation.Reservation, len(rooms))
	for _, r := range rs {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	d := Dashboard{From: start, To: end}
	typeRevenue := map[string]int{}

	for i := 0; i < months; i++ {
		c := start.Advance(i)
		first, last := c.Bounds()
		p := MonthPoint{Month: c.String(), Label: MonthLabels[c.Month-1], AvgPriceFor: map[string]int{}}

		for _, r := range rs {
			if checkIn := reservation.DateOf(r.StartDate); !checkIn.Before(first) && !checkIn.After(last) {
				p.Bookings++
			}
		}

		nightsByType := map[string]int{}
		revenueByType := map[string]int{}
		var weekdayCells, weekendCells, weekdayTaken, weekendTaken int
		for _, rm := range rooms {
			for _, r := range byRoom[rm.ID] {
				n := r.NightsWithin(first, last)
				nightsByType[rm.Type] += n
				revenueByType[rm.Type] += n * rm.Price
			}

			m := occupancy.BuildMonth(byRoom[rm.ID], c, nil)
			for _, day := range m.Days {
				if isWeekend(day.Date) {
					weekendCells++
					if nightTaken(day) {
						weekendTaken++
					}
				} else {
					weekdayCells++
					if nightTaken(day) {
						weekdayTaken++
					}
				}
			}
		}

		for typ, rev := range revenueByType {
			p.Revenue += rev
			typeRevenue[typ] += rev
			if nightsByType[typ] > 0 {
				p.AvgPriceFor[typ] = int(math.Round(float64(rev) / float64(nightsByType[typ])))
			}
		}
		p.WeekdayPct = percent(weekdayTaken, weekdayCells)
		p.WeekendPct = percent(weekendTaken, weekendCells)
		p.OccupancyPct = percent(weekdayTaken+weekendTaken, weekdayCells+weekendCells)
		d.Months = append(d.Months, p)
	}

	d.ByType = revenueByRoomType(rooms, typeRevenue)
	d.Summary = summarize(d.Months)
	return d, nil
}

func revenueByRoomType(rooms []room.Room, revenue map[string]int) []TypeRevenue {
	var out []TypeRevenue
	for _, typ := range room.ValidTypes {
		var count, priceSum int
		for _, rm := range rooms {
			if rm.Type == typ {
				count++
				priceSum += rm.Price
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, TypeRevenue{
			Type:         typ,
			Label:        room.TypeLabels[typ],
			Rooms:        count,
			Revenue:      revenue[typ],
			AveragePrice: int(math.Round(float64(priceSum) / float64(count))),
		})
	}
	return out
}

func summarize(months []MonthPoint) Summary {
	var s Summary
	for _, m := range months {
		s.TotalWindowBookings += m.Bookings
		s.TotalWindowRevenue += m.Revenue
	}
	if len(months) == 0 {
		return s
	}
	cur := months[len(months)-1]
	s.Bookings = cur.Bookings
	s.Revenue = cur.Revenue
	s.OccupancyPct = cur.OccupancyPct
	if len(months) > 1 {
		prev := months[len(months)-2]
		s.BookingsChangePct = change(prev.Bookings, cur.Bookings)
		s.RevenueChangePct = change(prev.Revenue, cur.Revenue)
		s.OccupancyChangePct = change(prev.OccupancyPct, cur.OccupancyPct)
	}
	return s
}

// nightTaken reports whether the night starting on day is booked. The checkout day
// is covered by its reservation but its night is free, matching NightsWithin.
func nightTaken(day occupancy.Day) bool {
	return day.Reserved() && !reservation.DateOf(day.Date).Equal(reservation.DateOf(day.Reservation.EndDate))
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// change returns the relative change from prev to cur in percent, one decimal.
// A change from zero is reported as 0.
func change(prev, cur int) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round(float64(cur-prev)*1000/float64(prev)) / 10
}
