package render

import (
	"bytes"
	"errors"
	"html/template"
	"time"

	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

// ErrNoPatient is returned when a print is requested for a draft with
// no selected patient. The print attempt terminates; nothing is opened.
var ErrNoPatient = errors.New("no patient selected")

// printData feeds the printable document template.
type printData struct {
	Clinic    ClinicProfile
	Patient   PatientBlock
	Symptoms  string
	Diagnosis string
	Medicines []RxEntry
	Advice    string
	Footer    string
}

var printTmpl = template.Must(template.New("prescription").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Prescription - {{.Patient.Name}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Inter', Arial, sans-serif; padding: 40px; color: #1f2937; }
    .prescription { max-width: 800px; margin: 0 auto; border: 2px solid #1A73E8; padding: 30px; border-radius: 12px; }
    .header { text-align: center; border-bottom: 2px solid #1A73E8; padding-bottom: 20px; margin-bottom: 20px; }
    .header h1 { color: #1A73E8; font-size: 28px; margin-bottom: 8px; }
    .header p { color: #6b7280; font-size: 14px; margin: 4px 0; }
    .patient-info { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; margin-bottom: 24px; padding: 16px; background: #f9fafb; border-radius: 8px; }
    .patient-info div { font-size: 14px; }
    .section { margin-bottom: 24px; }
    .section-title { color: #1A73E8; font-size: 16px; margin-bottom: 12px; font-weight: 600; }
    .section p { color: #4b5563; font-size: 14px; }
    .medicines { border-left: 3px solid #1A73E8; padding-left: 16px; }
    .medicine-item { margin-bottom: 12px; padding: 8px 0; }
    .medicine-name { font-weight: 600; color: #1f2937; font-size: 14px; }
    .medicine-details { color: #6b7280; font-size: 13px; margin-top: 4px; }
    .signature-section { margin-top: 40px; padding-top: 24px; border-top: 1px solid #e5e7eb; text-align: right; }
    .doctor-name { font-weight: 600; color: #1f2937; font-size: 14px; margin-top: 8px; }
    .doctor-credentials { color: #6b7280; font-size: 12px; margin-top: 2px; }
    .footer { margin-top: 32px; padding-top: 16px; border-top: 1px solid #e5e7eb; text-align: center; color: #9ca3af; font-size: 12px; }
    @media print { body { padding: 20px; } .prescription { border-color: #000; } }
  </style>
</head>
<body>
  <div class="prescription">
    <div class="header">
      <h1>{{.Clinic.ClinicName}}</h1>
      <p><strong>{{.Clinic.DoctorName}}, {{.Clinic.Credentials}}</strong></p>
      <p>Reg. No: {{.Clinic.RegistrationNumber}} | Contact: {{.Clinic.ClinicPhone}}</p>
      <p>{{.Clinic.ClinicAddress}}</p>
    </div>

    <div class="patient-info">
      <div><strong>Patient Name:</strong> {{.Patient.Name}}</div>
      <div><strong>Patient ID:</strong> {{.Patient.ID}}</div>
      <div><strong>Date:</strong> {{.Patient.Date}}</div>
      <div><strong>Age/Gender:</strong> {{.Patient.AgeGender}}</div>
    </div>

    {{if .Symptoms}}
    <div class="section">
      <div class="section-title">Symptoms</div>
      <p>{{.Symptoms}}</p>
    </div>
    {{end}}

    {{if .Diagnosis}}
    <div class="section">
      <div class="section-title">Diagnosis</div>
      <p>{{.Diagnosis}}</p>
    </div>
    {{end}}

    <div class="section">
      <div class="section-title">Rx (Prescription)</div>
      <div class="medicines">
        {{range .Medicines}}
        <div class="medicine-item">
          <div class="medicine-name">{{.Number}}. {{.Name}}</div>
          {{if .Dosage}}<div class="medicine-details">{{.Dosage}}{{if .Duration}} - {{.Duration}}{{end}}</div>{{end}}
        </div>
        {{end}}
      </div>
    </div>

    {{if .Advice}}
    <div class="section">
      <div class="section-title">Advice &amp; Instructions</div>
      <p>{{.Advice}}</p>
    </div>
    {{end}}

    <div class="signature-section">
      <div class="doctor-name">{{.Clinic.DoctorName}}</div>
      <div class="doctor-credentials">{{.Clinic.Credentials}}</div>
      <div class="doctor-credentials">Reg. No: {{.Clinic.RegistrationNumber}}</div>
    </div>

    <div class="footer">
      <p>{{.Footer}}</p>
      <p>For any queries, please contact: {{.Clinic.ClinicPhone}} | {{.Clinic.ClinicEmail}}</p>
    </div>
  </div>
</body>
</html>
`))

// PrintHTML serializes the draft into the standalone printable
// document. It fails with ErrNoPatient when the draft has no selected
// patient; free-text drafts otherwise render whatever they hold.
func PrintHTML(d *prescription.Draft, dir patients.Directory, profile ClinicProfile, now time.Time) ([]byte, error) {
	if d.PatientID == "" {
		return nil, ErrNoPatient
	}

	data := printData{
		Clinic:    profile,
		Patient:   patientBlock(d, dir, now),
		Symptoms:  d.Symptoms,
		Diagnosis: d.Diagnosis,
		Medicines: rxEntries(d),
		Advice:    d.Advice,
		Footer:    footerDisclaimer,
	}

	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
