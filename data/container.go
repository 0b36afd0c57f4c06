// Package data provides thread-safe storage for the reference formulary.
// It includes the DataContainer struct with atomic operations for
// zero-downtime table reloads and thread-safe access methods.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the formulary with atomic pointers for zero-downtime reloads
type DataContainer struct {
	table           atomic.Value // *formulary.Table
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
	analysisCount   atomic.Int64
}

// NewDataContainer creates a new DataContainer with an empty table
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.table.Store(formulary.NewTable(nil))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetTable returns the current formulary table
func (dc *DataContainer) GetTable() *formulary.Table {
	if v := dc.table.Load(); v != nil {
		if table, ok := v.(*formulary.Table); ok {
			return table
		}
	}

	logging.Warn("Formulary table is empty or invalid")
	return formulary.NewTable(nil)
}

// GetLastUpdated returns the timestamp of the last table reload
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a table reload is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// GetAnalysisCount returns the number of analyses served since startup
func (dc *DataContainer) GetAnalysisCount() int64 {
	return dc.analysisCount.Load()
}

// RecordAnalysis increments the served-analyses counter
func (dc *DataContainer) RecordAnalysis() {
	dc.analysisCount.Add(1)
}

// UpdateTable atomically replaces the formulary table
func (dc *DataContainer) UpdateTable(table *formulary.Table) {
	// Atomic swap (zero downtime replacement)
	dc.table.Store(table)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a table reload operation.
// Returns true if the reload can proceed, false if another is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a table reload operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
