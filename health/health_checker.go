// Package health provides health checking functionality for the prescriptions API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/prescriptions-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	// reloadable is true when a formulary file is configured; the
	// built-in table never goes stale
	reloadable bool
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore, reloadable bool) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		dataStore:  dataStore,
		reloadable: reloadable,
	}
}

// HealthCheck returns current system health status with HTTP status mapping
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	table := h.dataStore.GetTable()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case table.Len() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.reloadable && dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.reloadable && dataAge > 25*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"medicines":      table.Len(),
		"is_updating":    isUpdating,
		"analyses":       h.dataStore.GetAnalysisCount(),
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled formulary reload time.
// Reloads run daily at 06:00 local time.
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}

	return sixAM.AddDate(0, 0, 1)
}
