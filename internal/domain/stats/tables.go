package stats

import "hoteladmin/internal/domain/room"

// Table is one exportable dataset. Cells hold string, int or float64 values.
type Table struct {
	Title  string // section heading in CSV exports
	Sheet  string // worksheet name in XLSX exports, at most 31 characters
	Header []string
	Rows   [][]any
}

// Tables returns the dashboard datasets in export order.
func (d Dashboard) Tables() []Table {
	bookings := Table{
		Title:  "PŘEHLED REZERVACÍ",
		Sheet:  "Přehled rezervací",
		Header: []string{"Měsíc", "Počet rezervací", "Tržby (Kč)"},
	}
	occ := Table{
		Title:  "OBSAZENOST",
		Sheet:  "Obsazenost",
		Header: []string{"Měsíc", "Pracovní dny (%)", "Víkendy (%)"},
	}
	prices := Table{
		Title:  "VÝVOJ CEN",
		Sheet:  "Vývoj cen",
		Header: []string{"Měsíc"},
	}
	for _, typ := range room.ValidTypes {
		prices.Header = append(prices.Header, room.TypeLabels[typ]+" (Kč)")
	}

	for _, m := range d.Months {
		label := m.Label + " " + m.Month[:4]
		bookings.Rows = append(bookings.Rows, []any{label, m.Bookings, m.Revenue})
		occ.Rows = append(occ.Rows, []any{label, m.WeekdayPct, m.WeekendPct})

		row := []any{label}
		for _, typ := range room.ValidTypes {
			row = append(row, m.AvgPriceFor[typ])
		}
		prices.Rows = append(prices.Rows, row)
	}

	types := Table{
		Title:  "TRŽBY PODLE TYPU POKOJE",
		Sheet:  "Tržby podle pokojů",
		Header: []string{"Typ pokoje", "Tržby (Kč)", "Cena za noc (Kč)"},
	}
	for _, t := range d.ByType {
		types.Rows = append(types.Rows, []any{t.Label, t.Revenue, t.AveragePrice})
	}

	return []Table{bookings, types, occ, prices}
}
