// Package export renders prescription data into downloadable PDF reports.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/meditrack/meditrack/internal/domain/records"
)

// ErrEmptyReport is returned when there are no rows to render. The download
// action is a no-op on an empty set rather than producing a blank document.
var ErrEmptyReport = errors.New("no rows to export")

var headerFill = [3]int{0, 123, 255}

// orBlank substitutes "all" for an unset date bound in report filenames.
func orBlank(date string) string {
	if date == "" {
		return "all"
	}
	return date
}

// ListFilename names the prescription list report after its date bounds,
// e.g. Prescription_2026-01-01_to_2026-01-31.pdf. An open bound reads "all".
func ListFilename(start, end string) string {
	return fmt.Sprintf("Prescription_%s_to_%s.pdf", orBlank(start), orBlank(end))
}

// DayWiseFilename names the daily count report. Both bounds are always set
// for this report since the server requires them.
func DayWiseFilename(start, end string) string {
	return fmt.Sprintf("DailyPrescriptionReport_%s_to_%s.pdf", start, end)
}

func newReport(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func writeTable(pdf *gofpdf.Fpdf, widths []float64, head []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range head {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// PrescriptionList renders the filtered prescription set as a grid table,
// one row per record in the order given.
func PrescriptionList(w io.Writer, ps []records.Prescription) error {
	if len(ps) == 0 {
		return ErrEmptyReport
	}

	pdf := newReport("Prescription List")
	widths := []float64{12, 22, 34, 10, 18, 32, 40, 22}
	head := []string{"ID", "Date", "Patient", "Age", "Gender", "Diagnosis", "Medicines", "Next Visit"}

	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.PrescriptionDate,
			p.PatientName,
			strconv.Itoa(p.PatientAge),
			p.PatientGender,
			p.Diagnosis,
			p.Medicines,
			p.NextVisitDate,
		})
	}
	writeTable(pdf, widths, head, rows)
	return pdf.Output(w)
}

// DayWiseReport renders the daily prescription counts for a date range.
func DayWiseReport(w io.Writer, rows []records.DayWiseCount) error {
	if len(rows) == 0 {
		return ErrEmptyReport
	}

	pdf := newReport("Daily Prescription Count Report")
	widths := []float64{60, 60}
	head := []string{"Date", "Prescription Count"}

	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{r.PrescriptionDate, strconv.Itoa(r.Count)})
	}
	writeTable(pdf, widths, head, body)
	return pdf.Output(w)
}

// FilterByDate keeps the prescriptions whose date falls inside the
// inclusive range. With either bound missing the set passes through
// unfiltered; comparison is lexical, which is correct for ISO dates.
func FilterByDate(ps []records.Prescription, start, end string) []records.Prescription {
	if start == "" || end == "" {
		return ps
	}
	out := make([]records.Prescription, 0, len(ps))
	for _, p := range ps {
		if p.PrescriptionDate >= start && p.PrescriptionDate <= end {
			out = append(out, p)
		}
	}
	return out
}
