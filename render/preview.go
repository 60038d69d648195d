package render

import (
	"time"

	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

// dateLayout matches the long date the source clinic prints on
// prescriptions, e.g. "2 September 2026".
const dateLayout = "2 January 2006"

// RxEntry is one numbered medicine line in a rendered prescription.
type RxEntry struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Dosage   string `json:"dosage,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// PatientBlock is the patient header of a rendered prescription. Empty
// fields display as "-" the way the source preview does.
type PatientBlock struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Date      string `json:"date"`
	AgeGender string `json:"ageGender"`
}

// PreviewDocument is the read model behind the live preview panel.
// Optional sections are empty strings when their backing text is empty
// and are expected to be skipped by the consumer.
type PreviewDocument struct {
	Clinic    ClinicProfile `json:"clinic"`
	Patient   PatientBlock  `json:"patient"`
	Symptoms  string        `json:"symptoms,omitempty"`
	Diagnosis string        `json:"diagnosis,omitempty"`
	Medicines []RxEntry     `json:"medicines"`
	Advice    string        `json:"advice,omitempty"`
	Footer    string        `json:"footer"`
}

const footerDisclaimer = "This is a computer-generated prescription and is valid with doctor's signature."

// Preview projects the draft into the preview read model. Rows without
// a medicine name are excluded; numbering is 1-based over the remaining
// rows.
func Preview(d *prescription.Draft, dir patients.Directory, profile ClinicProfile, now time.Time) PreviewDocument {
	return PreviewDocument{
		Clinic:    profile,
		Patient:   patientBlock(d, dir, now),
		Symptoms:  d.Symptoms,
		Diagnosis: d.Diagnosis,
		Medicines: rxEntries(d),
		Advice:    d.Advice,
		Footer:    footerDisclaimer,
	}
}

func rxEntries(d *prescription.Draft) []RxEntry {
	active := d.ActiveMedicines()
	entries := make([]RxEntry, len(active))
	for i, m := range active {
		entries[i] = RxEntry{
			Number:   i + 1,
			Name:     m.Name,
			Dosage:   m.Dosage,
			Duration: m.Duration,
		}
	}
	return entries
}

func patientBlock(d *prescription.Draft, dir patients.Directory, now time.Time) PatientBlock {
	name := "-"
	id := "-"
	if d.PatientID != "" {
		id = d.PatientID
		name = resolvePatientName(d.PatientID, dir)
	}

	return PatientBlock{
		Name:      name,
		ID:        id,
		Date:      now.Format(dateLayout),
		AgeGender: ageGender(d.PatientAge, d.PatientGender),
	}
}

// resolvePatientName falls back to a generic label for ids the
// directory does not know, matching the source behavior.
func resolvePatientName(id string, dir patients.Directory) string {
	if dir != nil {
		if p, ok := dir.Lookup(id); ok {
			return p.Name
		}
	}
	return "Patient"
}

// ageGender joins age and gender as "age / gender", degrading to
// whichever is present, or "-" when both are empty.
func ageGender(age, gender string) string {
	switch {
	case age != "" && gender != "":
		return age + " / " + gender
	case age != "":
		return age
	case gender != "":
		return gender
	default:
		return "-"
	}
}
