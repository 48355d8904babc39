// Package render writes terminal tables for the CLI views.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/meditrack/meditrack/internal/domain/insights"
	"github.com/meditrack/meditrack/internal/domain/records"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// Prescriptions renders one row per record in the order given.
func Prescriptions(w io.Writer, ps []records.Prescription) {
	t := newTable(w, []string{"ID", "Date", "Patient", "Age", "Gender", "Diagnosis", "Medicines", "Next Visit"})
	for _, p := range ps {
		t.Append([]string{
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
	t.Render()
}

// Histories renders archived records; the shape matches the active table.
func Histories(w io.Writer, hs []records.History) {
	t := newTable(w, []string{"ID", "Date", "Patient", "Age", "Gender", "Diagnosis", "Medicines", "Next Visit"})
	for _, h := range hs {
		t.Append([]string{
			strconv.Itoa(h.ID),
			h.PrescriptionDate,
			h.PatientName,
			strconv.Itoa(h.PatientAge),
			h.PatientGender,
			h.Diagnosis,
			h.Medicines,
			h.NextVisitDate,
		})
	}
	t.Render()
}

// DayWise renders the daily prescription counts.
func DayWise(w io.Writer, rows []records.DayWiseCount) {
	t := newTable(w, []string{"Date", "Prescription Count"})
	for _, r := range rows {
		t.Append([]string{r.PrescriptionDate, strconv.Itoa(r.Count)})
	}
	t.Render()
}

// NameCounts renders a ranked aggregation under the given column names.
func NameCounts(w io.Writer, nameCol, countCol string, rows []insights.NameCount) {
	t := newTable(w, []string{nameCol, countCol})
	for _, r := range rows {
		t.Append([]string{r.Name, strconv.Itoa(r.Count)})
	}
	t.Render()
}

// Distribution renders labelled bucket counts, e.g. the age bands.
func Distribution(w io.Writer, title string, labels []string, counts []int) {
	fmt.Fprintln(w, title)
	t := newTable(w, []string{"Bucket", "Patients"})
	for i, label := range labels {
		t.Append([]string{label, strconv.Itoa(counts[i])})
	}
	t.Render()
}

// PageFooter prints the list screen's pagination line.
func PageFooter(w io.Writer, page, totalPages, totalRecords int) {
	fmt.Fprintf(w, "Page %d of %d (%d records)\n", page, totalPages, totalRecords)
}
