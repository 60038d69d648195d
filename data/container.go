// Package data provides thread-safe storage for the service's reference
// tables. The Container holds the catalog, the interaction checker, the
// templates and the patient directory behind atomic pointers so a
// scheduled reload can swap a whole consistent snapshot in with zero
// downtime while request handlers keep reading.
package data

import (
	"sync/atomic"
	"time"

	"github.com/sehatnxt/prescriptions-api/catalog"
	"github.com/sehatnxt/prescriptions-api/interactions"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/patients"
	"github.com/sehatnxt/prescriptions-api/prescription"
	"github.com/sehatnxt/prescriptions-api/refdata"
)

// Container holds all reference data with atomic pointers for
// zero-downtime updates.
type Container struct {
	catalog         atomic.Value // *catalog.Catalog
	checker         atomic.Value // *interactions.Checker
	templates       atomic.Value // []prescription.Template
	templatesMap    atomic.Value // map[int]prescription.Template
	directory       atomic.Value // patients.Directory
	lastReloaded    atomic.Value // time.Time
	reloading       atomic.Bool
	serverStartTime atomic.Value // time.Time

	strictInteractions bool
}

// NewContainer creates a container with empty reference data. strict
// selects exact-match interaction checking for every snapshot swapped
// in later.
func NewContainer(strict bool) *Container {
	c := &Container{strictInteractions: strict}
	c.catalog.Store(catalog.New(nil))
	c.checker.Store(interactions.New(nil, strict))
	c.templates.Store(make([]prescription.Template, 0))
	c.templatesMap.Store(make(map[int]prescription.Template))
	c.directory.Store(patients.Directory(patients.NewStaticDirectory(nil)))
	c.lastReloaded.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// Catalog returns the current medicine catalog.
func (c *Container) Catalog() *catalog.Catalog {
	if v := c.catalog.Load(); v != nil {
		if cat, ok := v.(*catalog.Catalog); ok {
			return cat
		}
	}

	logging.Warn("Catalog is empty or invalid")
	return catalog.New(nil)
}

// Checker returns the current interaction checker.
func (c *Container) Checker() *interactions.Checker {
	if v := c.checker.Load(); v != nil {
		if ch, ok := v.(*interactions.Checker); ok {
			return ch
		}
	}

	logging.Warn("Interaction checker is empty or invalid")
	return interactions.New(nil, c.strictInteractions)
}

// Templates returns the prescription templates in dataset order.
func (c *Container) Templates() []prescription.Template {
	if v := c.templates.Load(); v != nil {
		if ts, ok := v.([]prescription.Template); ok {
			return ts
		}
	}

	logging.Warn("Template list is empty or invalid")
	return []prescription.Template{}
}

// TemplatesMap returns the templates keyed by id for O(1) lookups.
func (c *Container) TemplatesMap() map[int]prescription.Template {
	if v := c.templatesMap.Load(); v != nil {
		if m, ok := v.(map[int]prescription.Template); ok {
			return m
		}
	}

	logging.Warn("Template map is empty or invalid")
	return make(map[int]prescription.Template)
}

// Directory returns the patient directory.
func (c *Container) Directory() patients.Directory {
	if v := c.directory.Load(); v != nil {
		if d, ok := v.(patients.Directory); ok {
			return d
		}
	}

	logging.Warn("Patient directory is empty or invalid")
	return patients.NewStaticDirectory(nil)
}

// LastReloaded returns the timestamp of the last reference data swap.
func (c *Container) LastReloaded() time.Time {
	if v := c.lastReloaded.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}

	logging.Warn("Could not get the last reloaded value")
	return time.Time{}
}

// IsReloading returns true while a reference reload is in progress.
func (c *Container) IsReloading() bool {
	return c.reloading.Load()
}

// SetServerStartTime records when the process came up.
func (c *Container) SetServerStartTime(t time.Time) {
	c.serverStartTime.Store(t)
}

// ServerStartTime returns the recorded process start time.
func (c *Container) ServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// Swap atomically replaces every reference table with the given
// dataset. Readers holding previous snapshots keep them; new reads see
// the full new dataset.
func (c *Container) Swap(ds *refdata.Dataset) {
	tmplMap := make(map[int]prescription.Template, len(ds.Templates))
	for _, t := range ds.Templates {
		tmplMap[t.ID] = t
	}

	c.catalog.Store(catalog.New(ds.CatalogEntries))
	c.checker.Store(interactions.New(ds.Interactions, c.strictInteractions))
	c.templates.Store(ds.Templates)
	c.templatesMap.Store(tmplMap)
	c.directory.Store(patients.Directory(patients.NewStaticDirectory(ds.Patients)))
	c.lastReloaded.Store(time.Now())
}

// BeginReload marks the start of a reload. Returns false when another
// reload is already running.
func (c *Container) BeginReload() bool {
	return c.reloading.CompareAndSwap(false, true)
}

// EndReload marks the end of a reload operation.
func (c *Container) EndReload() {
	c.reloading.Store(false)
}
