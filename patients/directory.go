// Package patients defines the patient directory collaborator consumed
// by the prescription flow. The engine only needs id -> display fields;
// the Directory interface is the extension point for a real patient
// store, with a small static directory as the default implementation.
package patients

// Patient holds the display fields the prescription engine needs.
type Patient struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Directory resolves patient identifiers to display records.
type Directory interface {
	// Lookup returns the patient for the id, or ok=false when unknown.
	Lookup(id string) (Patient, bool)

	// List returns all selectable patients in stable order.
	List() []Patient
}

// StaticDirectory is an immutable in-memory Directory built from a
// fixed patient list.
type StaticDirectory struct {
	ordered []Patient
	byID    map[string]Patient
}

var _ Directory = (*StaticDirectory)(nil)

// NewStaticDirectory builds a directory from the given patients,
// keeping input order for List. Later duplicates of an id are ignored.
func NewStaticDirectory(list []Patient) *StaticDirectory {
	d := &StaticDirectory{
		byID: make(map[string]Patient, len(list)),
	}
	for _, p := range list {
		if p.ID == "" {
			continue
		}
		if _, dup := d.byID[p.ID]; dup {
			continue
		}
		d.byID[p.ID] = p
		d.ordered = append(d.ordered, p)
	}
	return d
}

// Lookup implements Directory.
func (d *StaticDirectory) Lookup(id string) (Patient, bool) {
	p, ok := d.byID[id]
	return p, ok
}

// List implements Directory.
func (d *StaticDirectory) List() []Patient {
	return d.ordered
}
