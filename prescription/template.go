package prescription

// Template is a reusable preset bundling a diagnosis, a medicine list
// and advice text. Template medicine ids are template-local; applying a
// template assigns fresh draft ids.
type Template struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Diagnosis string     `json:"diagnosis"`
	Medicines []LineItem `json:"medicines"`
	Advice    string     `json:"advice"`
}

// ApplyTemplate loads a template into the draft: diagnosis and advice
// are overwritten unconditionally and the whole medicine list is
// replaced with fresh copies numbered from 1. Patient identity, age,
// gender and symptoms are left untouched. This is a full replace, not a
// merge.
func (d *Draft) ApplyTemplate(t Template) {
	d.Diagnosis = t.Diagnosis
	d.Advice = t.Advice

	rows := make([]LineItem, 0, len(t.Medicines))
	for i, m := range t.Medicines {
		rows = append(rows, LineItem{
			ID:       i + 1,
			Name:     m.Name,
			Dosage:   m.Dosage,
			Duration: m.Duration,
		})
	}
	if len(rows) == 0 {
		// The draft invariant of at least one editable row holds even
		// for an empty template.
		rows = []LineItem{{ID: 1}}
	}
	d.Medicines = rows
}
