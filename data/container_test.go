package data

import (
	"sync"
	"testing"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
)

// TestNewDataContainer verifies the container starts empty but usable
func TestNewDataContainer(t *testing.T) {
	dc := NewDataContainer()

	if dc.GetTable().Len() != 0 {
		t.Error("Expected empty table on creation")
	}
	if !dc.GetLastUpdated().IsZero() {
		t.Error("Expected zero last updated on creation")
	}
	if dc.IsUpdating() {
		t.Error("Expected no update in progress on creation")
	}
	if dc.GetAnalysisCount() != 0 {
		t.Error("Expected zero analyses on creation")
	}
}

// TestUpdateTable verifies atomic table replacement
func TestUpdateTable(t *testing.T) {
	dc := NewDataContainer()

	before := time.Now()
	dc.UpdateTable(formulary.DefaultTable())

	if dc.GetTable().Len() != 5 {
		t.Errorf("Expected 5 entries after update, got %d", dc.GetTable().Len())
	}

	lastUpdated := dc.GetLastUpdated()
	if lastUpdated.Before(before) {
		t.Error("Expected last updated to advance on update")
	}
}

// TestBeginEndUpdate verifies the update guard
func TestBeginEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("Expected first BeginUpdate to succeed")
	}
	if dc.BeginUpdate() {
		t.Error("Expected concurrent BeginUpdate to fail")
	}
	if !dc.IsUpdating() {
		t.Error("Expected IsUpdating during update")
	}

	dc.EndUpdate()

	if dc.IsUpdating() {
		t.Error("Expected IsUpdating false after EndUpdate")
	}
	if !dc.BeginUpdate() {
		t.Error("Expected BeginUpdate to succeed after EndUpdate")
	}
	dc.EndUpdate()
}

// TestServerStartTime verifies start time storage
func TestServerStartTime(t *testing.T) {
	dc := NewDataContainer()

	start := time.Now()
	dc.SetServerStartTime(start)

	if !dc.GetServerStartTime().Equal(start) {
		t.Error("Expected stored server start time back")
	}
}

// TestRecordAnalysis verifies the analysis counter
func TestRecordAnalysis(t *testing.T) {
	dc := NewDataContainer()

	for i := 0; i < 7; i++ {
		dc.RecordAnalysis()
	}

	if count := dc.GetAnalysisCount(); count != 7 {
		t.Errorf("Expected 7 analyses, got %d", count)
	}
}

// TestConcurrentAccess verifies readers and writers do not race
func TestConcurrentAccess(t *testing.T) {
	dc := NewDataContainer()
	table := formulary.DefaultTable()

	var wg sync.WaitGroup

	// Writers swapping the table
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				dc.UpdateTable(table)
				dc.RecordAnalysis()
			}
		}()
	}

	// Readers
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = dc.GetTable().Len()
				_ = dc.GetLastUpdated()
				_ = dc.GetAnalysisCount()
			}
		}()
	}

	wg.Wait()

	if dc.GetTable().Len() != 5 {
		t.Errorf("Expected 5 entries after concurrent updates, got %d", dc.GetTable().Len())
	}
	if dc.GetAnalysisCount() != 400 {
		t.Errorf("Expected 400 analyses, got %d", dc.GetAnalysisCount())
	}
}
