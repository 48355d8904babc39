package render

import (
	"strings"
	"testing"

	"github.com/meditrack/meditrack/internal/domain/insights"
	"github.com/meditrack/meditrack/internal/domain/records"
)

func TestPrescriptions(t *testing.T) {
	var out strings.Builder
	Prescriptions(&out, []records.Prescription{
		{ID: 1, PrescriptionDate: "2026-01-02", PatientName: "Alice Gray", PatientAge: 30, PatientGender: "female", Diagnosis: "flu"},
	})
	got := out.String()
	for _, want := range []string{"Alice Gray", "2026-01-02", "30", "flu"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestDayWise(t *testing.T) {
	var out strings.Builder
	DayWise(&out, []records.DayWiseCount{{PrescriptionDate: "2026-01-01", Count: 4}})
	if !strings.Contains(out.String(), "2026-01-01") || !strings.Contains(out.String(), "4") {
		t.Errorf("day-wise table incomplete:\n%s", out.String())
	}
}

func TestNameCounts(t *testing.T) {
	var out strings.Builder
	NameCounts(&out, "Diagnosis", "Count", []insights.NameCount{{Name: "flu", Count: 7}})
	if !strings.Contains(out.String(), "flu") || !strings.Contains(out.String(), "7") {
		t.Errorf("ranked table incomplete:\n%s", out.String())
	}
}

func TestPageFooter(t *testing.T) {
	var out strings.Builder
	PageFooter(&out, 2, 3, 23)
	if out.String() != "Page 2 of 3 (23 records)\n" {
		t.Errorf("unexpected footer %q", out.String())
	}
}
