// Package health provides health checking functionality for the
// prescriptions API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore      interfaces.DataStore
	drafts         *drafts.Store
	reloadInterval time.Duration
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore, store *drafts.Store, reloadInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:      dataStore,
		drafts:         store,
		reloadInterval: reloadInterval,
	}
}

// HealthCheck returns HTTP-specific health data.
// Used by the /health HTTP endpoint.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	cat := h.dataStore.Catalog()
	checker := h.dataStore.Checker()
	templates := h.dataStore.Templates()
	directory := h.dataStore.Directory()
	lastReload := h.dataStore.LastReloaded()
	isReloading := h.dataStore.IsReloading()

	catalogSize := 0
	if cat != nil {
		catalogSize = cat.Len()
	}
	ruleCount := 0
	if checker != nil {
		ruleCount = checker.RuleCount()
	}
	patientCount := 0
	if directory != nil {
		patientCount = len(directory.List())
	}

	dataAge := time.Since(lastReload)

	// The catalog is the one dataset the API cannot serve without. A
	// reload that has stalled for several intervals degrades first,
	// then fails.
	switch {
	case catalogSize == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 24*h.reloadInterval:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 3*h.reloadInterval:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isReloading && dataAge > 2*h.reloadInterval:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_reload":       lastReload.Format(time.RFC3339),
		"data_age_hours":    math.Round(dataAge.Hours()*10) / 10,
		"catalog_size":      catalogSize,
		"interaction_rules": ruleCount,
		"templates":         len(templates),
		"patients":          patientCount,
		"active_drafts":     h.drafts.Len(),
		"is_reloading":      isReloading,
		"uptime_hours":      math.Round(time.Since(h.dataStore.ServerStartTime()).Hours()*10) / 10,
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled reference reload time
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	last := h.dataStore.LastReloaded()
	if last.IsZero() {
		return time.Now()
	}

	next := last.Add(h.reloadInterval)
	for !next.After(time.Now()) {
		next = next.Add(h.reloadInterval)
	}
	return next
}
