package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
)

// stubDataStore provides controlled health inputs
type stubDataStore struct {
	table       *formulary.Table
	lastUpdated time.Time
	updating    bool
}

func (s *stubDataStore) GetTable() *formulary.Table     { return s.table }
func (s *stubDataStore) GetLastUpdated() time.Time      { return s.lastUpdated }
func (s *stubDataStore) IsUpdating() bool               { return s.updating }
func (s *stubDataStore) GetServerStartTime() time.Time  { return time.Now() }
func (s *stubDataStore) GetAnalysisCount() int64        { return 42 }
func (s *stubDataStore) UpdateTable(t *formulary.Table) { s.table = t }
func (s *stubDataStore) BeginUpdate() bool              { return true }
func (s *stubDataStore) EndUpdate()                     {}
func (s *stubDataStore) RecordAnalysis()                {}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		table          *formulary.Table
		dataAge        time.Duration
		reloadable     bool
		expectedStatus string
		expectedHTTP   int
	}{
		{
			name:           "fresh reloadable data",
			table:          formulary.DefaultTable(),
			dataAge:        time.Hour,
			reloadable:     true,
			expectedStatus: "healthy",
			expectedHTTP:   http.StatusOK,
		},
		{
			name:           "empty table",
			table:          formulary.NewTable(nil),
			dataAge:        time.Hour,
			reloadable:     true,
			expectedStatus: "unhealthy",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "stale reloadable data",
			table:          formulary.DefaultTable(),
			dataAge:        26 * time.Hour,
			reloadable:     true,
			expectedStatus: "degraded",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "very stale reloadable data",
			table:          formulary.DefaultTable(),
			dataAge:        49 * time.Hour,
			reloadable:     true,
			expectedStatus: "unhealthy",
			expectedHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:           "built-in table never goes stale",
			table:          formulary.DefaultTable(),
			dataAge:        30 * 24 * time.Hour,
			reloadable:     false,
			expectedStatus: "healthy",
			expectedHTTP:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubDataStore{
				table:       tt.table,
				lastUpdated: time.Now().Add(-tt.dataAge),
			}
			checker := NewHealthChecker(store, tt.reloadable)

			status, data, httpStatus := checker.HealthCheck()

			if status != tt.expectedStatus {
				t.Errorf("Expected status %q, got %q", tt.expectedStatus, status)
			}
			if httpStatus != tt.expectedHTTP {
				t.Errorf("Expected HTTP %d, got %d", tt.expectedHTTP, httpStatus)
			}
			if data["medicines"] != tt.table.Len() {
				t.Errorf("Expected medicines %d, got %v", tt.table.Len(), data["medicines"])
			}
			if data["analyses"] != int64(42) {
				t.Errorf("Expected analyses 42, got %v", data["analyses"])
			}
		})
	}
}

func TestHealthCheckDataFields(t *testing.T) {
	store := &stubDataStore{
		table:       formulary.DefaultTable(),
		lastUpdated: time.Now(),
		updating:    true,
	}
	checker := NewHealthChecker(store, true)

	_, data, _ := checker.HealthCheck()

	for _, field := range []string{"last_update", "data_age_hours", "medicines", "is_updating", "analyses", "next_update"} {
		if _, ok := data[field]; !ok {
			t.Errorf("Expected field %q in health data", field)
		}
	}
	if data["is_updating"] != true {
		t.Errorf("Expected is_updating true, got %v", data["is_updating"])
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	checker := NewHealthChecker(&stubDataStore{table: formulary.DefaultTable()}, true)

	next := checker.CalculateNextUpdate()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("Next update %v should be in the future", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Errorf("Next update %v should be within 24 hours", next)
	}
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("Next update should be at 06:00, got %02d:%02d", next.Hour(), next.Minute())
	}
}
