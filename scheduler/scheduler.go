// Package scheduler provides automated formulary reloads and staleness
// monitoring for the prescriptions API. It handles cron-based table
// refreshes and coordinates reload operations with the data container
// using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles formulary reloads and staleness monitoring
type Scheduler struct {
	dataStore     interfaces.DataStore
	parser        interfaces.FormularyParser
	validator     interfaces.RequestValidator
	formularyPath string
	scheduler     *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// An empty formularyPath means the built-in table: it is loaded once and
// no reload jobs are scheduled.
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.FormularyParser,
	validator interfaces.RequestValidator, formularyPath string) *Scheduler {
	return &Scheduler{
		dataStore:     dataStore,
		parser:        parser,
		validator:     validator,
		formularyPath: formularyPath,
		scheduler:     gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial table load and schedules reloads
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadTable(); err != nil {
		logging.Error("Failed to perform initial formulary load", "error", err)
		return fmt.Errorf("initial formulary load failed: %w", err)
	}

	if s.formularyPath == "" {
		// Built-in table, nothing to reload
		return nil
	}

	// Schedule reloads daily at 06:00
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.reloadTable(); err != nil {
			logging.Error("Failed to reload formulary", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule formulary reloads", "error", err)
		return fmt.Errorf("failed to schedule formulary reloads: %w", err)
	}

	s.scheduler.StartAsync()

	// Start staleness monitoring
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadTable performs a complete table reload using injected dependencies
func (s *Scheduler) reloadTable() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Formulary reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	table, err := s.parser.Load(s.formularyPath)
	if err != nil {
		logging.Error("Failed to load formulary", "path", s.formularyPath, "error", err)
		return fmt.Errorf("failed to load formulary: %w", err)
	}

	report := s.validator.ReportTableQuality(table)

	if len(report.DuplicateDisplayNames) > 0 {
		logging.Warn("Duplicate display names in formulary",
			"total", len(report.DuplicateDisplayNames),
			"names", report.DuplicateDisplayNames,
		)
	}

	if report.EntriesWithoutGeneric > 0 {
		logging.Warn("Formulary entries without a generic name",
			"count", report.EntriesWithoutGeneric,
		)
	}

	if report.EntriesWithoutDosage > 0 {
		logging.Warn("Formulary entries without a dosage",
			"count", report.EntriesWithoutDosage,
		)
	}

	if len(report.KeysNotMatchingName) > 0 {
		logging.Info("Formulary entries whose display name is not the capitalized key",
			"count", len(report.KeysNotMatchingName),
			"keys", report.KeysNotMatchingName,
		)
	}

	// Atomic swap using the injected data store
	s.dataStore.UpdateTable(table)

	elapsed := time.Since(start)
	logging.Info("Formulary load completed", "duration", elapsed.String(), "medicine_count", table.Len())

	return nil
}

// startStalenessMonitoring warns when a configured formulary has not been
// reloaded for over a day past its schedule
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Formulary hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
