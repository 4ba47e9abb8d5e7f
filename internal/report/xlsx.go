package report

import (
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"mentorship/internal/attendance"
)

// Sheet names of the export workbook.
const (
	SheetAttendance = "Attendance"
	SheetSummary    = "Summary"
)

// WriteXLSX exports records and the per-person summaries as a workbook.
func WriteXLSX(w io.Writer, records []attendance.Record, people []Person) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAttendance); err != nil {
		return pkgerrors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return pkgerrors.Wrap(err, "add summary sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return pkgerrors.Wrap(err, "header style")
	}

	rows := [][]any{{"Date", "User ID", "Name", "Check In", "Check Out", "Status"}}
	for _, r := range records {
		rows = append(rows, []any{r.Date.String(), r.UserID, r.UserName, r.CheckIn, r.CheckOut, r.Status.Label()})
	}
	if err := writeRows(f, SheetAttendance, rows, bold); err != nil {
		return err
	}

	header := []any{"User ID", "Name"}
	for _, b := range Buckets {
		header = append(header, b.Label())
	}
	header = append(header, "Total")
	rows = [][]any{header}
	for _, p := range people {
		row := []any{p.UserID, p.Name}
		for _, b := range Buckets {
			row = append(row, p.Tally.Count(b))
		}
		rows = append(rows, append(row, p.Tally.Total()))
	}
	if err := writeRows(f, SheetSummary, rows, bold); err != nil {
		return err
	}

	return pkgerrors.Wrap(f.Write(w), "write workbook")
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return pkgerrors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return pkgerrors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return pkgerrors.Wrap(err, "cell name")
	}
	return pkgerrors.Wrap(f.SetCellStyle(sheet, "A1", last, headerStyle), "style header")
}
