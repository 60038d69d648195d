// Package prescription holds the mutable prescription draft composed
// during a consultation: the ordered medicine line items, the patient
// header fields, dosage normalization and template application. A draft
// is exclusively owned by one session and is never persisted; it lives
// only as long as the session that created it.
package prescription

import (
	"errors"
	"strings"
)

var (
	// ErrLastRow is returned when a caller tries to delete the only
	// remaining line item. The draft always keeps at least one row.
	ErrLastRow = errors.New("at least one medicine row is required")

	// ErrRowNotFound is returned for operations addressing a line item
	// id that is not part of the draft.
	ErrRowNotFound = errors.New("medicine row not found")

	// ErrUnknownField is returned by UpdateField for field names other
	// than name, dosage and duration.
	ErrUnknownField = errors.New("unknown medicine field")
)

// Line item field names accepted by UpdateField.
const (
	FieldName     = "name"
	FieldDosage   = "dosage"
	FieldDuration = "duration"
)

// LineItem is one medicine entry within a draft. Name may be a catalog
// entry or free text; the catalog only informs suggestions, it does not
// constrain the final value.
type LineItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

// Draft is the in-progress, unsaved prescription for the current
// session. It always contains at least one line item.
type Draft struct {
	PatientID     string     `json:"patientId"`
	PatientAge    string     `json:"patientAge"`
	PatientGender string     `json:"patientGender"`
	Symptoms      string     `json:"symptoms"`
	Diagnosis     string     `json:"diagnosis"`
	Advice        string     `json:"advice"`
	Medicines     []LineItem `json:"medicines"`
}

// NewDraft creates an empty draft with a single blank medicine row.
func NewDraft() *Draft {
	return &Draft{
		Medicines: []LineItem{{ID: 1}},
	}
}

// AddRow appends a blank line item with a fresh id (max existing id + 1)
// and returns it. It always succeeds.
func (d *Draft) AddRow() LineItem {
	maxID := 0
	for _, m := range d.Medicines {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	row := LineItem{ID: maxID + 1}
	d.Medicines = append(d.Medicines, row)
	return row
}

// RemoveRow deletes the line item with the given id. Deleting the last
// remaining row is rejected with ErrLastRow and the draft is unchanged.
func (d *Draft) RemoveRow(id int) error {
	idx := d.rowIndex(id)
	if idx < 0 {
		return ErrRowNotFound
	}
	if len(d.Medicines) == 1 {
		return ErrLastRow
	}
	d.Medicines = append(d.Medicines[:idx], d.Medicines[idx+1:]...)
	return nil
}

// UpdateField replaces one field of the addressed line item. Dosage
// values are normalized to the canonical morning-afternoon-evening token
// on the way in.
func (d *Draft) UpdateField(id int, field, value string) error {
	idx := d.rowIndex(id)
	if idx < 0 {
		return ErrRowNotFound
	}

	switch field {
	case FieldName:
		d.Medicines[idx].Name = value
	case FieldDosage:
		d.Medicines[idx].Dosage = NormalizeDosage(value)
	case FieldDuration:
		d.Medicines[idx].Duration = value
	default:
		return ErrUnknownField
	}
	return nil
}

// CommitDosage applies blur-time completion to the addressed row's
// dosage: a lone "1" becomes "1-0-0", "1-2" becomes "1-2-0".
func (d *Draft) CommitDosage(id int) error {
	idx := d.rowIndex(id)
	if idx < 0 {
		return ErrRowNotFound
	}
	d.Medicines[idx].Dosage = CompleteDosage(d.Medicines[idx].Dosage)
	return nil
}

// Row returns a copy of the line item with the given id.
func (d *Draft) Row(id int) (LineItem, bool) {
	idx := d.rowIndex(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return d.Medicines[idx], true
}

// ActiveMedicines returns the line items with a non-empty name, in draft
// order. Blank rows stay editable in the draft but never reach the
// interaction checker, the preview or the printed document.
func (d *Draft) ActiveMedicines() []LineItem {
	var active []LineItem
	for _, m := range d.Medicines {
		if strings.TrimSpace(m.Name) != "" {
			active = append(active, m)
		}
	}
	return active
}

// MedicineNames returns the names of the active line items, in order.
func (d *Draft) MedicineNames() []string {
	active := d.ActiveMedicines()
	names := make([]string, len(active))
	for i, m := range active {
		names[i] = m.Name
	}
	return names
}

func (d *Draft) rowIndex(id int) int {
	for i, m := range d.Medicines {
		if m.ID == id {
			return i
		}
	}
	return -1
}
