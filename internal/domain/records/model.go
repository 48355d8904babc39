package records

import (
	"sort"
	"time"
)

// DateLayout is the wire format for all calendar dates (ISO local date).
const DateLayout = "2006-01-02"

// Prescription is one prescription entry for a patient visit, as returned
// by the backend. Dates are kept in their wire form; the backend is the
// sole source of truth and the client never normalizes them.
type Prescription struct {
	ID               int    `json:"id,omitempty"`
	PrescriptionDate string `json:"prescriptionDate"`
	PatientName      string `json:"patientName"`
	PatientAge       int    `json:"patientAge"`
	PatientGender    string `json:"patientGender"`
	Diagnosis        string `json:"diagnosis,omitempty"`
	Medicines        string `json:"medicines,omitempty"`
	NextVisitDate    string `json:"nextVisitDate,omitempty"`
}

// History is a snapshotted copy of a prescription moved to the append-only
// history collection. The archive endpoint accepts the full prescription
// body, so the shape is identical; the id carried in is the original
// prescription id.
type History struct {
	ID               int    `json:"id,omitempty"`
	PrescriptionDate string `json:"prescriptionDate"`
	PatientName      string `json:"patientName"`
	PatientAge       int    `json:"patientAge"`
	PatientGender    string `json:"patientGender"`
	Diagnosis        string `json:"diagnosis,omitempty"`
	Medicines        string `json:"medicines,omitempty"`
	NextVisitDate    string `json:"nextVisitDate,omitempty"`
}

// DayWiseCount is a server-computed count of prescriptions on one date.
type DayWiseCount struct {
	PrescriptionDate string `json:"prescriptionDate"`
	Count            int    `json:"count"`
}

// SortByDateDesc orders prescriptions newest-first by prescriptionDate.
// The sort is stable: records sharing a date keep their server-returned
// relative order. Malformed dates parse to the zero time and sink to the
// end, matching the loose date comparison of the original list view.
func SortByDateDesc(ps []Prescription) {
	sort.SliceStable(ps, func(i, j int) bool {
		ti, _ := time.Parse(DateLayout, ps[i].PrescriptionDate)
		tj, _ := time.Parse(DateLayout, ps[j].PrescriptionDate)
		return ti.After(tj)
	})
}
