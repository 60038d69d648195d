// Package interfaces defines core abstractions for the prescriptions
// API to improve testability, maintainability, and separation of
// concerns.
package interfaces

import (
	"time"

	"github.com/sehatnxt/prescriptions-api/catalog"
	"github.com/sehatnxt/prescriptions-api/interactions"
	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
	"github.com/sehatnxt/prescriptions-api/refdata"
)

// DataStore defines the contract for reference data access.
// It provides thread-safe reads of the catalog, interaction rules,
// templates and patient directory with atomic swaps for zero-downtime
// reloads.
type DataStore interface {
	Catalog() *catalog.Catalog
	Checker() *interactions.Checker
	Templates() []prescription.Template
	TemplatesMap() map[int]prescription.Template
	Directory() patients.Directory
	LastReloaded() time.Time
	IsReloading() bool
	ServerStartTime() time.Time

	Swap(ds *refdata.Dataset)
	BeginReload() bool
	EndReload()
}

// Loader defines the contract for reading and validating the reference
// dataset from its source.
type Loader interface {
	Load() (*refdata.Dataset, error)
}

// Scheduler defines the contract for job scheduling and health
// monitoring. It manages periodic reference reloads and draft sweeps.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextReload returns the next scheduled reference reload
	CalculateNextReload() time.Time
}

// DraftValidator defines the contract for prescription draft
// validation before a save or share.
type DraftValidator interface {
	// ValidateDraft returns the ordered list of problems blocking a
	// save. An empty slice means the draft can be saved.
	ValidateDraft(d *prescription.Draft) []string
}

// InputValidator defines the contract for free-text input validation
// on the request path.
type InputValidator interface {
	ValidatePrefix(input string) error
	ValidateField(input string) error
	ValidateAge(input string) (int, error)
}
