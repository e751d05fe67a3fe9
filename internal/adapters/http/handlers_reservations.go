package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/audit"
	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/reservation"
	"hoteladmin/internal/domain/room"
)

// reservationRequest is the JSON body for booking a room. Dates are YYYY-MM-DD.
type reservationRequest struct {
	FirstName string
	LastName  string
	Email     string
	StartDate string
	EndDate   string
	RoomID    string
}

func (in reservationRequest) input() orchestrators.CreateReservationInput {
	return orchestrators.CreateReservationInput(in)
}

func (s *Server) createReservationDeps() orchestrators.CreateReservationDeps {
	return orchestrators.CreateReservationDeps{
		ReservationStore: s.stores.ReservationStore,
		RoomStore:        s.stores.RoomStore,
		GenerateID:       s.genID,
		Now:              s.now,
	}
}

// handleReservations handles GET (list), POST (create) and DELETE (?id=) for /api/reservations
func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		list, err := s.stores.ReservationStore.List(ctx, reservationStore.ListFilter{
			RoomID: r.URL.Query().Get("room_id"),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		if list == nil {
			list = []reservation.Reservation{}
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var req reservationRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		created, err := orchestrators.ExecuteCreateReservation(ctx, req.input(), s.createReservationDeps())
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryReservation, audit.ActionCreate, created.ID, reservationSummary(created))
		writeJSON(w, http.StatusCreated, created)

	case "DELETE":
		id, ok := requireID(w, r)
		if !ok {
			return
		}
		err := orchestrators.ExecuteDeleteReservation(ctx, id, orchestrators.DeleteReservationDeps{
			ReservationStore: s.stores.ReservationStore,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		s.recordAudit(r, audit.CategoryReservation, audit.ActionDelete, id, "")
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// reservationSummary names the guest, room and stay for the audit trail.
func reservationSummary(res reservation.Reservation) string {
	return res.FirstName + " " + res.LastName + ", room " + res.RoomID + ", " +
		res.StartDate.Format(time.DateOnly) + " to " + res.EndDate.Format(time.DateOnly)
}

// parseCalendarQuery reads month (YYYY-MM, default current), delta and room_id.
func (s *Server) parseCalendarQuery(q url.Values) (projections.CalendarQuery, bool) {
	cursor, err := occupancy.ParseCursor(q.Get("month"), occupancy.CursorFor(s.now()))
	if err != nil {
		return projections.CalendarQuery{}, false
	}
	delta := 0
	if v := q.Get("delta"); v != "" {
		if delta, err = strconv.Atoi(v); err != nil {
			return projections.CalendarQuery{}, false
		}
	}
	return projections.CalendarQuery{Cursor: cursor, Delta: delta, RoomID: q.Get("room_id")}, true
}

func (s *Server) calendarDeps() projections.CalendarDeps {
	return projections.CalendarDeps{
		RoomStore:        s.stores.RoomStore,
		ReservationStore: s.stores.ReservationStore,
		Palette:          s.palette,
	}
}

// handleCalendar handles GET /api/calendar?month=YYYY-MM[&room_id=][&delta=n]
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	query, ok := s.parseCalendarQuery(r.URL.Query())
	if !ok {
		http.Error(w, "month must be YYYY-MM and delta an integer", http.StatusBadRequest)
		return
	}
	res, err := projections.QueryCalendar(r.Context(), query, s.calendarDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCalendarView(res, s.palette))
}

// reservationsPage is the template data of reservations.html.
type reservationsPage struct {
	Calendar CalendarView
	Rooms    []room.Room
	RoomID   string
	Form     reservationRequest
	Error    string
}

// handleReservationsPage handles GET (calendar grids) and POST (booking or cancel form) for /reservations
func (s *Server) handleReservationsPage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		query, ok := s.parseCalendarQuery(r.URL.Query())
		if !ok {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
		s.renderReservationsPage(w, r, http.StatusOK, query, reservationsPage{RoomID: query.RoomID})

	case "POST":
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		if r.FormValue("action") == "delete" {
			err := orchestrators.ExecuteDeleteReservation(r.Context(), r.FormValue("id"), orchestrators.DeleteReservationDeps{
				ReservationStore: s.stores.ReservationStore,
			})
			if err != nil {
				writeError(w, err)
				return
			}
			s.recordAudit(r, audit.CategoryReservation, audit.ActionDelete, r.FormValue("id"), "")
			http.Redirect(w, r, "/reservations?month="+url.QueryEscape(r.FormValue("month")), http.StatusSeeOther)
			return
		}

		form := reservationRequest{
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
			Email:     r.FormValue("email"),
			StartDate: r.FormValue("start_date"),
			EndDate:   r.FormValue("end_date"),
			RoomID:    r.FormValue("room_id"),
		}
		created, err := orchestrators.ExecuteCreateReservation(r.Context(), form.input(), s.createReservationDeps())
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				internalError(w, err)
				return
			}
			query := s.formCalendarQuery(r, err)
			s.renderReservationsPage(w, r, status, query, reservationsPage{RoomID: query.RoomID, Form: form, Error: err.Error()})
			return
		}
		s.recordAudit(r, audit.CategoryReservation, audit.ActionCreate, created.ID, reservationSummary(created))
		month := occupancy.CursorFor(created.StartDate).String()
		http.Redirect(w, r, "/reservations?month="+month, http.StatusSeeOther)

	default:
		methodNotAllowed(w)
	}
}

// formCalendarQuery picks the grid shown above a rejected booking form. A bad month
// falls back to the current one; the booked room stays selected unless it does not exist.
func (s *Server) formCalendarQuery(r *http.Request, bookingErr error) projections.CalendarQuery {
	roomID := r.FormValue("room_id")
	if errors.Is(bookingErr, orchestrators.ErrRoomNotFound) {
		roomID = ""
	}
	query, ok := s.parseCalendarQuery(url.Values{"month": {r.FormValue("month")}})
	if !ok {
		query = projections.CalendarQuery{Cursor: occupancy.CursorFor(s.now())}
	}
	query.RoomID = roomID
	return query
}

func (s *Server) renderReservationsPage(w http.ResponseWriter, r *http.Request, status int, query projections.CalendarQuery, page reservationsPage) {
	res, err := projections.QueryCalendar(r.Context(), query, s.calendarDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	rooms, err := s.stores.RoomStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	page.Calendar = newCalendarView(res, s.palette)
	page.Rooms = rooms
	s.renderTemplateStatus(w, r, status, "reservations.html", page)
}
