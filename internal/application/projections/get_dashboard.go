package projections

import (
	"context"

	"hoteladmin/internal/adapters/storage/reservation"
	"hoteladmin/internal/domain/occupancy"
	"hoteladmin/internal/domain/stats"
)

// DashboardQuery carries input for the dashboard projection.
type DashboardQuery struct {
	End    occupancy.Cursor // last month of the window
	Months int              // window length; zero means stats.DefaultMonths
}

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	RoomStore        RoomStore
	ReservationStore ReservationStore
}

// QueryDashboard computes the statistics dashboard for the window ending at query.End.
// PRE: Months in 0..stats.MaxMonths
// POST: Only reservations overlapping the window are loaded
func QueryDashboard(ctx context.Context, query DashboardQuery, deps DashboardDeps) (stats.Dashboard, error) {
	months := query.Months
	if months == 0 {
		months = stats.DefaultMonths
	}
	if months < 1 || months > stats.MaxMonths {
		return stats.Dashboard{}, stats.ErrInvalidMonths
	}

	rooms, err := deps.RoomStore.List(ctx)
	if err != nil {
		return stats.Dashboard{}, err
	}

	from, _ := query.End.Advance(-(months - 1)).Bounds()
	_, to := query.End.Bounds()
	rs, err := deps.ReservationStore.List(ctx, reservation.ListFilter{From: from, To: to})
	if err != nil {
		return stats.Dashboard{}, err
	}

	return stats.Compute(rooms, rs, query.End, months)
}
