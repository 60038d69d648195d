// Package refdata loads the read-only reference tables the service runs
// on: the medicine catalog, the drug interaction rules, the prescription
// templates and the sample patient directory. Defaults are embedded in
// the binary; a data directory may override any of them with a JSON file
// of the same name. A dataset is validated before it is accepted, so a
// broken override never replaces a good one.
package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// File names recognized inside the data directory.
const (
	catalogFile      = "catalog.json"
	interactionsFile = "interactions.json"
	templatesFile    = "templates.json"
	patientsFile     = "patients.json"
)

// Dataset is one consistent snapshot of all reference tables.
type Dataset struct {
	CatalogEntries []string
	Interactions   map[string][]string
	Templates      []prescription.Template
	Patients       []patients.Patient
}

// Load assembles a dataset from the embedded defaults, overridden per
// file by dir when it contains a matching JSON file. An empty dir means
// defaults only. Any malformed or invalid file fails the whole load.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	if err := loadSection(dir, catalogFile, &ds.CatalogEntries); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := loadSection(dir, interactionsFile, &ds.Interactions); err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	if err := loadSection(dir, templatesFile, &ds.Templates); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if err := loadSection(dir, patientsFile, &ds.Patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("reference data invalid: %w", err)
	}

	return ds, nil
}

// DirLoader loads the dataset from a fixed override directory. The
// zero value loads the embedded defaults.
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load() (*Dataset, error) {
	return Load(l.Dir)
}

// loadSection unmarshals one reference file. The override file wins when
// present and readable; otherwise the embedded default is used.
func loadSection(dir, name string, out any) error {
	if dir != "" {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("parse override %s: %w", path, err)
			}
			logging.Info("Loaded reference data override", "file", path)
			return nil
		case os.IsNotExist(err):
			// Fall through to the embedded default.
		default:
			return fmt.Errorf("read override %s: %w", path, err)
		}
	}

	raw, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		return fmt.Errorf("read embedded default %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse embedded default %s: %w", name, err)
	}
	return nil
}

// Validate checks internal consistency of a dataset before it goes
// live.
func (ds *Dataset) Validate() error {
	if len(ds.CatalogEntries) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	for i, e := range ds.CatalogEntries {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("catalog entry %d is blank", i)
		}
		if len(e) > 200 {
			return fmt.Errorf("catalog entry %d too long: %d characters", i, len(e))
		}
	}

	for base, flagged := range ds.Interactions {
		if strings.TrimSpace(base) == "" {
			return fmt.Errorf("interaction rule with blank base drug")
		}
		for _, f := range flagged {
			if strings.TrimSpace(f) == "" {
				return fmt.Errorf("interaction rule %q lists a blank entry", base)
			}
		}
	}

	tmplIDs := make(map[int]struct{}, len(ds.Templates))
	for _, t := range ds.Templates {
		if t.ID <= 0 {
			return fmt.Errorf("template %q has invalid id %d", t.Name, t.ID)
		}
		if _, dup := tmplIDs[t.ID]; dup {
			return fmt.Errorf("duplicate template id %d", t.ID)
		}
		tmplIDs[t.ID] = struct{}{}
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("template %d has no name", t.ID)
		}
		for _, m := range t.Medicines {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("template %d lists a blank medicine", t.ID)
			}
		}
	}

	patientIDs := make(map[string]struct{}, len(ds.Patients))
	for _, p := range ds.Patients {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("patient %q has no id", p.Name)
		}
		if _, dup := patientIDs[p.ID]; dup {
			return fmt.Errorf("duplicate patient id %s", p.ID)
		}
		patientIDs[p.ID] = struct{}{}
		if p.Age < 0 || p.Age > 150 {
			return fmt.Errorf("patient %s has implausible age %d", p.ID, p.Age)
		}
	}

	return nil
}
