// Package export writes dashboard tables as XLSX workbooks or sectioned CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"hoteladmin/internal/domain/stats"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ErrUnknownFormat is returned for anything other than xlsx or csv.
var ErrUnknownFormat = errors.New("format must be xlsx or csv")

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download name for an export generated on day.
func FileName(format string, day time.Time) string {
	return fmt.Sprintf("hotel-statistics-%s.%s", day.Format("2006-01-02"), format)
}

// Write renders tables in format to w.
func Write(w io.Writer, format string, tables []stats.Table) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, tables)
	case FormatCSV:
		return WriteCSV(w, tables)
	}
	return ErrUnknownFormat
}

// WriteXLSX writes one worksheet per table with a bold header row.
// PRE: len(tables) > 0 and sheet names are unique
func WriteXLSX(w io.Writer, tables []stats.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return err
		}

		if err := writeSheet(f, t, header); err != nil {
			return fmt.Errorf("sheet %s: %w", t.Sheet, err)
		}
	}
	f.SetActiveSheet(0)

	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, t stats.Table, headerStyle int) error {
	headerRow := make([]any, len(t.Header))
	for i, h := range t.Header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(t.Sheet, cell, &values); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Header))
	if err != nil {
		return err
	}
	return f.SetColWidth(t.Sheet, "A", lastCol, 20)
}

// WriteCSV writes each table as a "### TITLE ###" section. Sections are separated by a blank line.
func WriteCSV(w io.Writer, tables []stats.Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"### " + t.Title + " ###"}); err != nil {
			return err
		}
		if err := cw.Write(t.Header); err != nil {
			return err
		}
		for _, row := range t.Rows {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = formatCell(v)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
