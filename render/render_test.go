package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

var testProfile = ClinicProfile{
	DoctorName:         "Dr. Sharma",
	Credentials:        "MBBS, MD",
	RegistrationNumber: "12345",
	ClinicName:         "SehatNxt+",
	ClinicAddress:      "Sharma Clinic, MG Road, Mumbai - 400001",
	ClinicPhone:        "+91 98765 43210",
	ClinicEmail:        "info@sharmaclinic.com",
}

func testDirectory() patients.Directory {
	return patients.NewStaticDirectory([]patients.Patient{
		{ID: "P001", Name: "Rajesh Kumar", Age: 45, Gender: "Male"},
	})
}

func testNow() time.Time {
	return time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)
}

func TestPreviewFiltersUnnamedRows(t *testing.T) {
	d := prescription.NewDraft()
	d.AddRow()
	if err := d.UpdateField(2, prescription.FieldName, "Dolo 650"); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}

	doc := Preview(d, testDirectory(), testProfile, testNow())

	if len(doc.Medicines) != 1 {
		t.Fatalf("Expected 1 rendered medicine, got %d", len(doc.Medicines))
	}
	if doc.Medicines[0].Number != 1 || doc.Medicines[0].Name != "Dolo 650" {
		t.Errorf("Expected '1. Dolo 650', got %+v", doc.Medicines[0])
	}
}

func TestPreviewOmitsEmptySections(t *testing.T) {
	d := prescription.NewDraft()
	doc := Preview(d, testDirectory(), testProfile, testNow())

	if doc.Symptoms != "" || doc.Diagnosis != "" || doc.Advice != "" {
		t.Errorf("Expected empty optional sections, got %+v", doc)
	}

	d.Symptoms = "Fever since 2 days"
	d.Diagnosis = "Viral fever"
	d.Advice = "Rest and fluids"
	doc = Preview(d, testDirectory(), testProfile, testNow())

	if doc.Symptoms != "Fever since 2 days" || doc.Diagnosis != "Viral fever" || doc.Advice != "Rest and fluids" {
		t.Errorf("Sections not carried: %+v", doc)
	}
}

func TestPreviewPatientBlock(t *testing.T) {
	tests := []struct {
		name      string
		patientID string
		age       string
		gender    string
		expName   string
		expID     string
		expAG     string
	}{
		{
			name:    "no patient",
			expName: "-",
			expID:   "-",
			expAG:   "-",
		},
		{
			name:      "known patient with age and gender",
			patientID: "P001",
			age:       "45",
			gender:    "Male",
			expName:   "Rajesh Kumar",
			expID:     "P001",
			expAG:     "45 / Male",
		},
		{
			name:      "unknown id falls back",
			patientID: "P999",
			age:       "30",
			expName:   "Patient",
			expID:     "P999",
			expAG:     "30",
		},
		{
			name:      "gender only",
			patientID: "P001",
			gender:    "Female",
			expName:   "Rajesh Kumar",
			expID:     "P001",
			expAG:     "Female",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := prescription.NewDraft()
			d.PatientID = tt.patientID
			d.PatientAge = tt.age
			d.PatientGender = tt.gender

			doc := Preview(d, testDirectory(), testProfile, testNow())

			if doc.Patient.Name != tt.expName {
				t.Errorf("Name: expected %q, got %q", tt.expName, doc.Patient.Name)
			}
			if doc.Patient.ID != tt.expID {
				t.Errorf("ID: expected %q, got %q", tt.expID, doc.Patient.ID)
			}
			if doc.Patient.AgeGender != tt.expAG {
				t.Errorf("AgeGender: expected %q, got %q", tt.expAG, doc.Patient.AgeGender)
			}
			if doc.Patient.Date != "1 September 2026" {
				t.Errorf("Date: got %q", doc.Patient.Date)
			}
		})
	}
}

func TestPrintHTMLRequiresPatient(t *testing.T) {
	d := prescription.NewDraft()

	_, err := PrintHTML(d, testDirectory(), testProfile, testNow())
	if !errors.Is(err, ErrNoPatient) {
		t.Fatalf("Expected ErrNoPatient, got %v", err)
	}
}

func TestPrintHTMLDocument(t *testing.T) {
	d := prescription.NewDraft()
	d.PatientID = "P001"
	d.PatientAge = "45"
	d.PatientGender = "Male"
	d.Diagnosis = "Viral fever"
	d.Advice = "Rest and fluids"
	d.AddRow()
	if err := d.UpdateField(1, prescription.FieldName, "Dolo 650"); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}
	if err := d.UpdateField(1, prescription.FieldDosage, "101"); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}
	if err := d.UpdateField(1, prescription.FieldDuration, "3 days"); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}

	raw, err := PrintHTML(d, testDirectory(), testProfile, testNow())
	if err != nil {
		t.Fatalf("PrintHTML failed: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"SehatNxt+",
		"Dr. Sharma, MBBS, MD",
		"Reg. No: 12345",
		"Rajesh Kumar",
		"1. Dolo 650",
		"1-0-1 - 3 days",
		"Viral fever",
		"Rest and fluids",
		"computer-generated prescription",
		"info@sharmaclinic.com",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected document to contain %q", want)
		}
	}

	// The second row never got a name and must not appear.
	if strings.Contains(html, "2. ") {
		t.Error("Unnamed row leaked into the printed document")
	}
}

func TestPrintHTMLOmitsEmptySections(t *testing.T) {
	d := prescription.NewDraft()
	d.PatientID = "P001"
	if err := d.UpdateField(1, prescription.FieldName, "Dolo 650"); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}

	raw, err := PrintHTML(d, testDirectory(), testProfile, testNow())
	if err != nil {
		t.Fatalf("PrintHTML failed: %v", err)
	}
	html := string(raw)

	for _, notWant := range []string{"Symptoms", "Diagnosis", "Advice"} {
		if strings.Contains(html, ">"+notWant+"<") {
			t.Errorf("Empty section %q rendered", notWant)
		}
	}
}

func TestStartPrintJob(t *testing.T) {
	surface := NewMemorySurface()

	job, err := StartPrintJob(surface, "Prescription - Rajesh Kumar", []byte("<html></html>"), 5*time.Millisecond)
	if err != nil {
		t.Fatalf("StartPrintJob failed: %v", err)
	}

	job.Wait()

	if !job.Invoked() {
		t.Error("Expected print to be invoked")
	}
	if job.State() != StateIdle {
		t.Errorf("Expected job back to idle, got %s", job.State())
	}
	if err := job.PrintErr(); err != nil {
		t.Errorf("Unexpected print error: %v", err)
	}

	docs := surface.Documents()
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if !docs[0].Closed() || !docs[0].Printed() {
		t.Error("Document should be closed and printed")
	}
	if docs[0].HTML() != "<html></html>" {
		t.Errorf("Unexpected document body %q", docs[0].HTML())
	}
	if docs[0].Title() != "Prescription - Rajesh Kumar" {
		t.Errorf("Unexpected title %q", docs[0].Title())
	}
}

type blockedSurface struct{}

func (blockedSurface) Open(string) (Document, error) {
	return nil, errors.New("popup blocked")
}

func TestStartPrintJobOpenFailureIsTerminal(t *testing.T) {
	_, err := StartPrintJob(blockedSurface{}, "t", []byte("x"), time.Millisecond)
	if err == nil {
		t.Fatal("Expected error when surface cannot be opened")
	}
}
