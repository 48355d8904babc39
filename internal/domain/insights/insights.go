// Package insights computes the dashboard aggregations over a fetched
// prescription set. All reductions are pure and run client-side; the only
// server-computed input is the day-wise visit report.
package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/meditrack/meditrack/internal/domain/records"
)

// TopN is how many rows the ranked aggregations keep.
const TopN = 5

// AgeBucketLabels name the fixed age bands, youngest first.
var AgeBucketLabels = [5]string{"0-18", "19-35", "36-50", "51-65", "65+"}

// GenderLabels index the gender distribution. Anything that is not male or
// female, compared case-insensitively, lands in the other bucket.
var GenderLabels = [3]string{"Male", "Female", "Other"}

// MonthLabels index the visits-per-month histogram.
var MonthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// NameCount is one row of a ranked aggregation.
type NameCount struct {
	Name  string
	Count int
}

// topCounts ranks a tally map by count descending and keeps the first TopN.
// Ties keep their first-seen order so repeated runs over the same set
// produce the same rows.
func topCounts(counts map[string]int, order []string) []NameCount {
	out := make([]NameCount, 0, len(order))
	for _, name := range order {
		out = append(out, NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// tallySplit counts comma-separated entries of one field across the set,
// trimming whitespace and skipping empties.
func tallySplit(ps []records.Prescription, field func(records.Prescription) string) []NameCount {
	counts := map[string]int{}
	var order []string
	for _, p := range ps {
		for _, part := range strings.Split(field(p), ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	return topCounts(counts, order)
}

// TopDiagnoses returns the five most frequent diagnoses. A record's
// diagnosis field may carry several comma-separated entries; each counts
// once.
func TopDiagnoses(ps []records.Prescription) []NameCount {
	return tallySplit(ps, func(p records.Prescription) string { return p.Diagnosis })
}

// TopMedicines returns the five most prescribed medicines, split the same
// way as diagnoses.
func TopMedicines(ps []records.Prescription) []NameCount {
	return tallySplit(ps, func(p records.Prescription) string { return p.Medicines })
}

// AgeDistribution buckets patients into the fixed bands of AgeBucketLabels.
func AgeDistribution(ps []records.Prescription) [5]int {
	var out [5]int
	for _, p := range ps {
		switch age := p.PatientAge; {
		case age <= 18:
			out[0]++
		case age <= 35:
			out[1]++
		case age <= 50:
			out[2]++
		case age <= 65:
			out[3]++
		default:
			out[4]++
		}
	}
	return out
}

// GenderDistribution counts male, female and other, case-insensitively.
func GenderDistribution(ps []records.Prescription) [3]int {
	var out [3]int
	for _, p := range ps {
		switch strings.ToLower(p.PatientGender) {
		case "male":
			out[0]++
		case "female":
			out[1]++
		default:
			out[2]++
		}
	}
	return out
}

// VisitsPerMonth folds day-wise counts into a month-of-year histogram.
// Years are deliberately collapsed: January of any year lands in bucket 0.
// Rows with unparseable dates are dropped.
func VisitsPerMonth(rows []records.DayWiseCount) [12]int {
	var out [12]int
	for _, r := range rows {
		t, err := time.Parse(records.DateLayout, r.PrescriptionDate)
		if err != nil {
			continue
		}
		out[t.Month()-1] += r.Count
	}
	return out
}

// TopVisitedPatients ranks patients by number of prescriptions, keeping
// the top five. Names are compared exactly as the backend returns them.
func TopVisitedPatients(ps []records.Prescription) []NameCount {
	counts := map[string]int{}
	var order []string
	for _, p := range ps {
		if _, seen := counts[p.PatientName]; !seen {
			order = append(order, p.PatientName)
		}
		counts[p.PatientName]++
	}
	return topCounts(counts, order)
}
