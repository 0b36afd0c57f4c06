// Package validation provides request input and formulary data validation
// for the prescriptions API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/interfaces"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pre-compiled patterns, compiled once at package initialization
var (
	// File names: word characters plus safe punctuation, no separators
	fileNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 ._\-]*$`)

	// Search input: alphanumeric plus safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+']+$`)

	// Dangerous patterns as strings (strings.Contains beats regex for
	// simple substring screening)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/",
		// Command injection patterns
		"; ", "| ", "& ", "`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
	}

	// Content types the analyze endpoint accepts
	allowedContentTypes = []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/tiff",
		"image/bmp",
		"text/plain",
	}
)

// RequestValidatorImpl implements the interfaces.RequestValidator interface
type RequestValidatorImpl struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() interfaces.RequestValidator {
	return &RequestValidatorImpl{}
}

// ValidateFileName checks an uploaded file name for traversal and size
func (v *RequestValidatorImpl) ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name is empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("file name too long: %d characters", len(name))
	}

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("file name must not contain path separators: %s", name)
	}

	if !fileNameRegex.MatchString(name) {
		return fmt.Errorf("file name contains invalid characters: %s", name)
	}

	return nil
}

// ValidateContentType checks a declared content type against the supported set
func (v *RequestValidatorImpl) ValidateContentType(contentType string) error {
	if contentType == "" {
		return fmt.Errorf("content type is empty")
	}

	normalized := strings.ToLower(strings.TrimSpace(contentType))
	// Drop any parameters like "; charset=utf-8"
	if idx := strings.Index(normalized, ";"); idx != -1 {
		normalized = strings.TrimSpace(normalized[:idx])
	}

	for _, allowed := range allowedContentTypes {
		if normalized == allowed {
			return nil
		}
	}

	return fmt.Errorf("unsupported content type: %s", contentType)
}

// ValidateInput validates user-supplied search strings
func (v *RequestValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input is empty")
	}

	if len(input) > 100 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ReportTableQuality generates a quality report for a loaded formulary table.
// Issues are reported, not fixed: the table is served as loaded.
func (v *RequestValidatorImpl) ReportTableQuality(table *formulary.Table) *interfaces.TableQualityReport {
	report := &interfaces.TableQualityReport{}

	nameCount := make(map[string]int)
	caser := cases.Title(language.English)

	for _, entry := range table.Entries() {
		nameCount[strings.ToLower(entry.Medicine.Name)]++

		if strings.TrimSpace(entry.Medicine.GenericName) == "" {
			report.EntriesWithoutGeneric++
		}
		if strings.TrimSpace(entry.Medicine.Dosage) == "" {
			report.EntriesWithoutDosage++
		}

		// Display names are generally the capitalized key; flag the
		// entries where the two diverge since the matcher checks both
		if caser.String(entry.Key) != entry.Medicine.Name {
			report.KeysNotMatchingName = append(report.KeysNotMatchingName, entry.Key)
		}
	}

	for name, count := range nameCount {
		if count > 1 {
			report.DuplicateDisplayNames = append(report.DuplicateDisplayNames, name)
		}
	}

	return report
}
