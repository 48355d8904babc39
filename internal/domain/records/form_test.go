package records

import (
	"context"
	"errors"
	"testing"
)

type fakeSubmitter struct {
	createErr   error
	updateErr   error
	created     []Prescription
	updated     []Prescription
	lastEditID  int
	createCalls int
	updateCalls int
}

func (f *fakeSubmitter) Create(ctx context.Context, p Prescription) (*Prescription, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 7
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakeSubmitter) Update(ctx context.Context, id int, p Prescription) (*Prescription, error) {
	f.updateCalls++
	f.lastEditID = id
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p.ID = id
	f.updated = append(f.updated, p)
	return &p, nil
}

func validData() FormData {
	return FormData{
		PrescriptionDate: "2026-02-01",
		PatientName:      "Grace Hopper",
		PatientAge:       "30",
		PatientGender:    "female",
		Diagnosis:        "flu",
		Medicines:        "Paracetamol",
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := FormData{}.Validate(ModeCreate)

	want := map[string]string{
		"prescriptionDate": "Prescription date is required.",
		"patientName":      "Patient name is required.",
		"patientAge":       "Patient age is required.",
		"patientGender":    "Patient gender is required.",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("%s: got %q, want %q", field, errs[field], msg)
		}
	}
}

func TestValidate_NameWhitespaceOnly(t *testing.T) {
	d := validData()
	d.PatientName = "   "
	errs := d.Validate(ModeCreate)
	if errs["patientName"] != "Patient name is required." {
		t.Errorf("whitespace-only name must be rejected, got %q", errs["patientName"])
	}
}

// The create and edit screens carry different upper age bounds. This is
// inherited behavior; the asymmetry is pinned here so unifying the bounds
// is a deliberate change, not an accident.
func TestValidate_AgeBoundsPerMode(t *testing.T) {
	tests := []struct {
		name    string
		age     string
		mode    Mode
		wantMsg string
	}{
		{"create at 120", "120", ModeCreate, ""},
		{"create at 121", "121", ModeCreate, "Age must be between 0 and 120."},
		{"create at 130", "130", ModeCreate, "Age must be between 0 and 120."},
		{"edit at 130", "130", ModeEdit, ""},
		{"edit at 131", "131", ModeEdit, "Age must be between 0 and 130."},
		{"negative", "-1", ModeCreate, "Age must be between 0 and 120."},
		{"not a number", "abc", ModeCreate, "Age must be between 0 and 120."},
		{"not a number edit", "abc", ModeEdit, "Age must be between 0 and 130."},
		{"zero", "0", ModeCreate, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validData()
			d.PatientAge = tt.age
			errs := d.Validate(tt.mode)
			if errs["patientAge"] != tt.wantMsg {
				t.Errorf("age %q mode %v: got %q, want %q", tt.age, tt.mode, errs["patientAge"], tt.wantMsg)
			}
		})
	}
}

func TestValidate_GenderCaseInsensitive(t *testing.T) {
	for _, g := range []string{"male", "Female", "OTHER"} {
		d := validData()
		d.PatientGender = g
		if errs := d.Validate(ModeCreate); errs["patientGender"] != "" {
			t.Errorf("gender %q should be valid: %q", g, errs["patientGender"])
		}
	}
	d := validData()
	d.PatientGender = "unknown"
	if errs := d.Validate(ModeCreate); errs["patientGender"] == "" {
		t.Error("unenumerated gender should be rejected")
	}
}

func TestSubmit_ValidationFailureSkipsNetwork(t *testing.T) {
	svc := &fakeSubmitter{}
	f := NewCreateForm()
	f.Data = validData()
	f.Data.PatientAge = "130" // over the create bound

	_, err := f.Submit(context.Background(), svc)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if svc.createCalls != 0 {
		t.Error("validation failure must not reach the network")
	}
	if f.State != StateEditing {
		t.Errorf("form should return to editing, got state %v", f.State)
	}
	if f.Errors["patientAge"] != "Age must be between 0 and 120." {
		t.Errorf("inline error not set: %q", f.Errors["patientAge"])
	}
}

func TestSubmit_CreateSuccessResetsForm(t *testing.T) {
	svc := &fakeSubmitter{}
	f := NewCreateForm()
	f.Data = validData()

	saved, err := f.Submit(context.Background(), svc)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if saved.ID != 7 {
		t.Errorf("expected server-assigned id, got %d", saved.ID)
	}
	if f.State != StateSuccess {
		t.Errorf("expected StateSuccess, got %v", f.State)
	}
	if f.Data != (FormData{}) {
		t.Errorf("create success must reset the form, got %+v", f.Data)
	}
	if svc.created[0].PatientAge != 30 {
		t.Errorf("age must be submitted as a number, got %d", svc.created[0].PatientAge)
	}
}

func TestSubmit_EditSuccessKeepsData(t *testing.T) {
	svc := &fakeSubmitter{}
	f := NewEditForm(12, Prescription{
		PrescriptionDate: "2026-02-01",
		PatientName:      "Grace Hopper",
		PatientAge:       130, // valid on edit only
		PatientGender:    "female",
	})

	if _, err := f.Submit(context.Background(), svc); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if svc.lastEditID != 12 {
		t.Errorf("expected update of id 12, got %d", svc.lastEditID)
	}
	if f.State != StateSuccess {
		t.Errorf("expected StateSuccess, got %v", f.State)
	}
	if f.Data.PatientName != "Grace Hopper" {
		t.Error("edit success must keep the form data in place")
	}
}

func TestSubmit_NetworkFailurePreservesData(t *testing.T) {
	svc := &fakeSubmitter{createErr: errors.New("server unreachable")}
	f := NewCreateForm()
	f.Data = validData()

	if _, err := f.Submit(context.Background(), svc); err == nil {
		t.Fatal("expected error")
	}
	if f.State != StateFailed {
		t.Errorf("expected StateFailed, got %v", f.State)
	}
	if f.Data != validData() {
		t.Errorf("form data must be preserved for retry, got %+v", f.Data)
	}
}

func TestNewEditForm_Prefill(t *testing.T) {
	f := NewEditForm(3, Prescription{
		PrescriptionDate: "2026-01-01",
		PatientName:      "Ada",
		PatientAge:       36,
		PatientGender:    "female",
		Diagnosis:        "flu",
		NextVisitDate:    "2026-02-01",
	})
	if f.Data.PatientAge != "36" {
		t.Errorf("age should prefill as string, got %q", f.Data.PatientAge)
	}
	if f.Data.NextVisitDate != "2026-02-01" {
		t.Errorf("next visit date not prefilled: %q", f.Data.NextVisitDate)
	}
}
