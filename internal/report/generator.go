// Package report turns a user's time entries into the weekly report
// spreadsheet. Generation is a pure transformation of (staff label, entries,
// report date); the file-save side effect belongs to the caller.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/epoch-io/epoch/internal/models"
)

const (
	// SheetName is the single worksheet of the generated workbook.
	SheetName = "Weekly Report"

	reportTitle = "ZIHI Insitute STAFF WEEKLY REPORT"

	headerFill = "0284C7"

	// Data rows start here: title row 1, staff/week row 3, column headers row 4.
	firstDataRow = 5
)

var columnHeaders = []interface{}{
	"Day",
	"Date",
	"Work/Activity done",
	"Project",
	"Time in",
	"Time out",
	"Hours worked on project",
	"Billable/Non-billable",
}

// Filename names the exported workbook after the staff label and report date.
func Filename(staff string, now time.Time) string {
	return fmt.Sprintf("WeeklyReport-%s-%s.xlsx", staff, now.Format("2006-01-02"))
}

// ContentType is the XLSX media type for download responses.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Generate produces the weekly report workbook. Entries are emitted in
// ascending date order regardless of input order (stable for equal dates);
// the input slice is not modified. now populates the WEEK ENDING field only.
func Generate(staff string, entries []models.TimeEntry, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	if err := writeHeaderBlock(f, staff, now); err != nil {
		return nil, err
	}

	if err := writeColumnHeaders(f); err != nil {
		return nil, err
	}

	if err := writeDataRows(f, sortByDate(entries)); err != nil {
		return nil, err
	}

	if err := setColumnWidths(f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sortByDate returns a copy sorted ascending by calendar date. ISO dates
// compare correctly as strings, and the sort is stable so entries on the
// same date keep their input order.
func sortByDate(entries []models.TimeEntry) []models.TimeEntry {
	sorted := make([]models.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// weekdayName derives the weekday from an ISO date by its year/month/day
// components, so the result never shifts with the local time zone.
func weekdayName(date string) (string, error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid entry date %q: expected YYYY-MM-DD", date)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid entry date %q: %w", date, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid entry date %q: %w", date, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("invalid entry date %q: %w", date, err)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday().String(), nil
}

func writeHeaderBlock(f *excelize.File, staff string, now time.Time) error {
	if err := f.MergeCell(SheetName, "A1", "H1"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A1", reportTitle); err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Calibri", Size: 16, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := f.SetRowHeight(SheetName, 1, 30); err != nil {
		return err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.MergeCell(SheetName, "A3", "B3"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A3", "STAFF NAME:"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A3", "A3", boldStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "C3", staff); err != nil {
		return err
	}

	if err := f.MergeCell(SheetName, "F3", "G3"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "F3", "WEEK ENDING:"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "F3", "F3", boldStyle); err != nil {
		return err
	}
	return f.SetCellValue(SheetName, "H3", now.Format("1/2/2006"))
}

func writeColumnHeaders(f *excelize.File) error {
	if err := f.SetSheetRow(SheetName, "A4", &columnHeaders); err != nil {
		return err
	}
	if err := f.SetRowHeight(SheetName, 4, 30); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, "A4", "H4", headerStyle)
}

func writeDataRows(f *excelize.File, sorted []models.TimeEntry) error {
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return err
	}

	for i, entry := range sorted {
		day, err := weekdayName(entry.Date)
		if err != nil {
			return err
		}

		row := firstDataRow + i
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(8, row)
		if err != nil {
			return err
		}

		values := []interface{}{
			day,
			entry.Date,
			entry.Activity,
			entry.Project,
			entry.TimeIn,
			entry.TimeOut,
			entry.HoursWorked,
			entry.Billable,
		}
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return err
		}
		// Style the full row span so empty cells get borders too.
		if err := f.SetCellStyle(SheetName, start, end, dataStyle); err != nil {
			return err
		}
	}
	return nil
}

func setColumnWidths(f *excelize.File) error {
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 15}, {"B", 15}, {"C", 50}, {"D", 30},
		{"E", 12}, {"F", 12}, {"G", 20}, {"H", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(SheetName, w.col, w.col, w.width); err != nil {
			return err
		}
	}
	return nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}
}
