// Package scheduler provides automated reference data reloads and
// draft housekeeping for the prescriptions API. It handles cron-based
// reloads, idle draft sweeps and staleness monitoring, coordinating
// with the data container through dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/interfaces"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler reloads reference data and sweeps idle drafts on a fixed
// cadence.
type Scheduler struct {
	dataStore      interfaces.DataStore
	loader         interfaces.Loader
	drafts         *drafts.Store
	reloadInterval time.Duration
	draftTTL       time.Duration
	scheduler      *gocron.Scheduler
	watchdogStop   chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, store *drafts.Store, reloadInterval, draftTTL time.Duration) *Scheduler {
	return &Scheduler{
		dataStore:      dataStore,
		loader:         loader,
		drafts:         store,
		reloadInterval: reloadInterval,
		draftTTL:       draftTTL,
		scheduler:      gocron.NewScheduler(time.Local),
		watchdogStop:   make(chan struct{}),
	}
}

// Start performs the initial reference load and schedules the periodic
// jobs. A failed initial load is fatal; the API cannot serve without a
// catalog.
func (s *Scheduler) Start() error {
	if err := s.reloadData(); err != nil {
		logging.Error("Failed to perform initial reference load", "error", err)
		return fmt.Errorf("initial reference load failed: %w", err)
	}

	_, err := s.scheduler.Every(s.reloadInterval).Do(func() {
		if err := s.reloadData(); err != nil {
			logging.Error("Failed to reload reference data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reference reloads", "error", err)
		return fmt.Errorf("failed to schedule reference reloads: %w", err)
	}

	_, err = s.scheduler.Every(5).Minutes().Do(s.sweepDrafts)
	if err != nil {
		logging.Error("Failed to schedule draft sweeps", "error", err)
		return fmt.Errorf("failed to schedule draft sweeps: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessWatchdog()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	close(s.watchdogStop)
	s.scheduler.Stop()
}

// reloadData loads and validates a fresh dataset, then swaps it in
// atomically. A reload already in progress is skipped, and a failed
// load leaves the previous dataset serving.
func (s *Scheduler) reloadData() error {
	if !s.dataStore.BeginReload() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndReload()

	logging.Info("Starting reference data reload")
	start := time.Now()

	ds, err := s.loader.Load()
	if err != nil {
		logging.Error("Failed to load reference data", "error", err)
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	s.dataStore.Swap(ds)

	logging.Info("Reference data reload completed",
		"duration", time.Since(start).String(),
		"catalog_entries", len(ds.CatalogEntries),
		"interaction_rules", len(ds.Interactions),
		"templates", len(ds.Templates),
		"patients", len(ds.Patients),
	)

	return nil
}

// sweepDrafts drops drafts idle for longer than the TTL.
func (s *Scheduler) sweepDrafts() {
	removed := s.drafts.Sweep(s.draftTTL)
	metrics.ActiveDrafts.Set(float64(s.drafts.Len()))
	if removed > 0 {
		logging.Info("Swept idle prescription drafts", "removed", removed, "remaining", s.drafts.Len())
	}
}

// startStalenessWatchdog warns when reloads have silently stopped.
func (s *Scheduler) startStalenessWatchdog() {
	go func() {
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.watchdogStop:
				return
			case <-ticker.C:
				lastReload := s.dataStore.LastReloaded()
				if time.Since(lastReload) > 3*s.reloadInterval {
					logging.Warn("Reference data has not reloaded recently",
						"last_reload", lastReload.Format(time.RFC3339))
				}
			}
		}
	}()
}
