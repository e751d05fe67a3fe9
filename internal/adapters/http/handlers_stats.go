package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"hoteladmin/internal/adapters/export"
	"hoteladmin/internal/application/projections"
	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/stats"
)

// parseDashboardQuery reads month (YYYY-MM, last month of the window) and months.
func (s *Server) parseDashboardQuery(q url.Values) (projections.DashboardQuery, error) {
	end, err := occupancy.ParseCursor(q.Get("month"), occupancy.CursorFor(s.now()))
	if err != nil {
		return projections.DashboardQuery{}, err
	}
	months := 0
	if v := q.Get("months"); v != "" {
		if months, err = strconv.Atoi(v); err != nil {
			return projections.DashboardQuery{}, stats.ErrInvalidMonths
		}
		if months == 0 {
			return projections.DashboardQuery{}, stats.ErrInvalidMonths
		}
	}
	return projections.DashboardQuery{End: end, Months: months}, nil
}

func (s *Server) dashboard(r *http.Request) (stats.Dashboard, error) {
	query, err := s.parseDashboardQuery(r.URL.Query())
	if err != nil {
		return stats.Dashboard{}, err
	}
	return projections.QueryDashboard(r.Context(), query, projections.DashboardDeps{
		RoomStore:        s.stores.RoomStore,
		ReservationStore: s.stores.ReservationStore,
	})
}

// handleStats handles GET /api/stats?month=YYYY-MM&months=n
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	d, err := s.dashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleStatsExport handles GET /api/stats/export?format=xlsx|csv&month=&months=
func (s *Server) handleStatsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatXLSX
	}
	if format != export.FormatXLSX && format != export.FormatCSV {
		http.Error(w, export.ErrUnknownFormat.Error(), http.StatusBadRequest)
		return
	}

	d, err := s.dashboard(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, d.Tables()); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(format, s.now())+`"`)
	buf.WriteTo(w)
}
