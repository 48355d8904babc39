package records

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects which screen's rules a form enforces. The create and edit
// screens carry different upper age bounds (120 vs 130); the asymmetry is
// inherited behavior and pinned by tests so any unification is deliberate.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// State follows the form lifecycle: editing → validating → submitting →
// {success, failed}. Validation failures return to editing with field
// errors set; network failures keep the entered data for a retry.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateFailed
)

const (
	MinAge       = 0
	MaxAgeCreate = 120
	MaxAgeEdit   = 130
)

// RedirectDelay is how long the create screen shows its success banner
// before navigating back to the list.
const RedirectDelay = 1500 * time.Millisecond

// FormData holds raw field input. Everything is a string until validation;
// the age is only converted to a number for the request body.
type FormData struct {
	PrescriptionDate string
	PatientName      string
	PatientAge       string
	PatientGender    string
	Diagnosis        string
	Medicines        string
	NextVisitDate    string
}

// ValidationErrors maps field name to the message shown inline.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// Validate applies the field rules for the given mode. Diagnosis, medicines
// and the next visit date are free-form and never checked.
func (d FormData) Validate(mode Mode) ValidationErrors {
	errs := ValidationErrors{}

	if d.PrescriptionDate == "" {
		errs["prescriptionDate"] = "Prescription date is required."
	}
	if strings.TrimSpace(d.PatientName) == "" {
		errs["patientName"] = "Patient name is required."
	}

	maxAge := MaxAgeCreate
	if mode == ModeEdit {
		maxAge = MaxAgeEdit
	}
	if d.PatientAge == "" {
		errs["patientAge"] = "Patient age is required."
	} else if age, err := strconv.ParseFloat(d.PatientAge, 64); err != nil || age < MinAge || age > float64(maxAge) {
		errs["patientAge"] = fmt.Sprintf("Age must be between %d and %d.", MinAge, maxAge)
	}

	if d.PatientGender == "" {
		errs["patientGender"] = "Patient gender is required."
	} else if !validGenders[strings.ToLower(d.PatientGender)] {
		errs["patientGender"] = "Gender must be male, female, or other."
	}

	return errs
}

// Record converts validated input into the request body. Call only after
// Validate returned no errors.
func (d FormData) Record() Prescription {
	age, _ := strconv.ParseFloat(d.PatientAge, 64)
	return Prescription{
		PrescriptionDate: d.PrescriptionDate,
		PatientName:      d.PatientName,
		PatientAge:       int(age),
		PatientGender:    d.PatientGender,
		Diagnosis:        d.Diagnosis,
		Medicines:        d.Medicines,
		NextVisitDate:    d.NextVisitDate,
	}
}

// Submitter is the slice of the backend the form screens use.
type Submitter interface {
	Create(ctx context.Context, p Prescription) (*Prescription, error)
	Update(ctx context.Context, id int, p Prescription) (*Prescription, error)
}

// Form is the controller behind the create and edit screens.
type Form struct {
	Mode   Mode
	ID     int // record id, edit mode only
	Data   FormData
	Errors ValidationErrors
	State  State
}

func NewCreateForm() *Form {
	return &Form{Mode: ModeCreate, State: StateEditing}
}

// NewEditForm prefills the form from a fetched record.
func NewEditForm(id int, p Prescription) *Form {
	return &Form{
		Mode:  ModeEdit,
		ID:    id,
		State: StateEditing,
		Data: FormData{
			PrescriptionDate: p.PrescriptionDate,
			PatientName:      p.PatientName,
			PatientAge:       strconv.Itoa(p.PatientAge),
			PatientGender:    p.PatientGender,
			Diagnosis:        p.Diagnosis,
			Medicines:        p.Medicines,
			NextVisitDate:    p.NextVisitDate,
		},
	}
}

// Submit validates and, if clean, sends the record. On validation failure
// no network call is made and the form returns to editing with Errors set.
// On network failure the entered data is preserved. On create success the
// form resets to empty; on edit success the data stays for further edits.
func (f *Form) Submit(ctx context.Context, svc Submitter) (*Prescription, error) {
	f.State = StateValidating
	if errs := f.Data.Validate(f.Mode); len(errs) > 0 {
		f.Errors = errs
		f.State = StateEditing
		return nil, errs
	}
	f.Errors = nil

	f.State = StateSubmitting
	var (
		saved *Prescription
		err   error
	)
	if f.Mode == ModeCreate {
		saved, err = svc.Create(ctx, f.Data.Record())
	} else {
		saved, err = svc.Update(ctx, f.ID, f.Data.Record())
	}
	if err != nil {
		f.State = StateFailed
		return nil, err
	}

	f.State = StateSuccess
	if f.Mode == ModeCreate {
		f.Data = FormData{}
	}
	return saved, nil
}
