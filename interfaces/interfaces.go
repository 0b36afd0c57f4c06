// Package interfaces defines core abstractions for the prescriptions API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
)

// TableQualityReport provides a summary of formulary data quality issues
type TableQualityReport struct {
	DuplicateDisplayNames []string
	EntriesWithoutGeneric int      // Count of entries with an empty genericName
	EntriesWithoutDosage  int      // Count of entries with an empty dosage
	KeysNotMatchingName   []string // Keys whose display name is not the capitalized key
}

// DataStore defines the contract for formulary storage operations.
// It provides thread-safe access to the reference table with atomic
// operations for zero-downtime reloads.
type DataStore interface {
	// Data retrieval methods
	GetTable() *formulary.Table
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	GetAnalysisCount() int64

	// Data update methods
	UpdateTable(table *formulary.Table)
	BeginUpdate() bool
	EndUpdate()
	RecordAnalysis()
}

// FormularyParser defines the contract for loading the reference table
// from its configured source.
type FormularyParser interface {
	// Load returns the formulary table from path, or the built-in
	// default table when path is empty
	Load(path string) (*formulary.Table, error)
}

// Matcher defines the contract for mapping extracted prescription text
// to medicine records.
type Matcher interface {
	Match(text string, table *formulary.Table) []entities.Medicine
}

// OCRClient defines the contract for the OCR collaborator. Extraction
// failures are swallowed at this boundary: implementations log the
// failure and return an empty string, never an error.
type OCRClient interface {
	ExtractText(ctx context.Context, image []byte) string
}

// ObjectStore defines the contract for persisting uploaded prescription
// files. Failures propagate as errors to the caller.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated formulary reloads and system health checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// RequestValidator defines the contract for request input validation.
type RequestValidator interface {
	// ValidateFileName checks an uploaded file name for traversal and size
	ValidateFileName(name string) error

	// ValidateContentType checks a declared content type against the
	// supported set
	ValidateContentType(contentType string) error

	// ValidateInput validates user-supplied search strings
	ValidateInput(input string) error

	// ReportTableQuality generates a quality report for a loaded table
	ReportTableQuality(table *formulary.Table) *TableQualityReport
}
