package projections

import (
	"context"

	"hoteladmin/internal/adapters/storage/reservation"
	"hoteladmin/internal/domain/occupancy"
	domainReservation "hoteladmin/internal/domain/reservation"
	domainRoom "hoteladmin/internal/domain/room"
)

// CalendarQuery carries query parameters.
type CalendarQuery struct {
	Cursor occupancy.Cursor
	Delta  int    // months to move from Cursor before building
	RoomID string // optional; empty means every room
}

// RoomCalendar is one room's month grid.
type RoomCalendar struct {
	Room  domainRoom.Room
	Month occupancy.Month
}

// CalendarResult carries the query result.
type CalendarResult struct {
	Cursor occupancy.Cursor
	Prev   occupancy.Cursor
	Next   occupancy.Cursor
	Rooms  []RoomCalendar
}

// CalendarDeps holds dependencies for QueryCalendar.
type CalendarDeps struct {
	RoomStore        RoomStore
	ReservationStore ReservationStore
	Palette          occupancy.Palette
}

// QueryCalendar builds the occupancy grid of every requested room for one month.
// PRE: deps.Palette is the palette shared by the grid and the reservation list
// POST: Rooms follow the room store order; each Month holds only that room's reservations
// INVARIANT: A reservation gets the same color on every day it covers and in the list
func QueryCalendar(ctx context.Context, query CalendarQuery, deps CalendarDeps) (CalendarResult, error) {
	cursor := query.Cursor.Advance(query.Delta)
	first, last := cursor.Bounds()

	var rooms []domainRoom.Room
	if query.RoomID != "" {
		r, err := deps.RoomStore.GetByID(ctx, query.RoomID)
		if err != nil {
			return CalendarResult{}, err
		}
		rooms = []domainRoom.Room{r}
	} else {
		var err error
		rooms, err = deps.RoomStore.List(ctx)
		if err != nil {
			return CalendarResult{}, err
		}
	}

	rs, err := deps.ReservationStore.List(ctx, reservation.ListFilter{
		RoomID: query.RoomID,
		From:   first,
		To:     last,
	})
	if err != nil {
		return CalendarResult{}, err
	}

	// Store order is kept within each room so first-match resolution stays stable.
	byRoom := make(map[string][]domainReservation.Reservation)
	for _, r := range rs {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	result := CalendarResult{
		Cursor: cursor,
		Prev:   cursor.Advance(-1),
		Next:   cursor.Advance(1),
		Rooms:  make([]RoomCalendar, 0, len(rooms)),
	}
	for _, r := range rooms {
		result.Rooms = append(result.Rooms, RoomCalendar{
			Room:  r,
			Month: occupancy.BuildMonth(byRoom[r.ID], cursor, deps.Palette),
		})
	}
	return result, nil
}
