// Package matcher identifies known medicines in raw, noisy OCR text.
// It runs an exact pass against the reference formulary first and falls
// back to suffix-based heuristics only when nothing is recognized.
package matcher

import (
	"regexp"
	"strings"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxFallbackResults caps how many heuristic guesses are surfaced.
const maxFallbackResults = 3

// Suffix patterns for common medicine name families, applied in this order.
// Pre-compiled once at package initialization.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\w+cillin\b`), // antibiotics like amoxicillin
	regexp.MustCompile(`\b\w+ol\b`),     // like paracetamol
	regexp.MustCompile(`\b\w+ine\b`),    // like codeine
	regexp.MustCompile(`\b\w+min\b`),    // like metformin
}

// Match maps extracted prescription text to zero or more medicine records.
//
// The exact pass walks the table in its defined order and keeps every entry
// whose canonical key or lowercased display name occurs as a substring of
// the lowercased text; each entry contributes at most one record. When the
// exact pass finds nothing, the fallback pass collects whole-word suffix
// matches in pattern order, keeps the first three, and synthesizes
// placeholder records for them.
//
// Match is a pure function of its inputs: any text, including the empty
// string, yields a (possibly empty) result without failing.
func Match(text string, table *formulary.Table) []entities.Medicine {
	normalized := normalize(text)

	matches := exactPass(normalized, table)
	if len(matches) > 0 {
		return matches
	}

	return fallbackPass(normalized)
}

// normalize lowercases text for case-insensitive matching
func normalize(text string) string {
	return strings.ToLower(text)
}

// exactPass checks literal presence of known medicine identifiers.
func exactPass(normalized string, table *formulary.Table) []entities.Medicine {
	var matches []entities.Medicine
	for _, entry := range table.Entries() {
		if strings.Contains(normalized, entry.Key) ||
			strings.Contains(normalized, strings.ToLower(entry.Medicine.Name)) {
			matches = append(matches, entry.Medicine)
		}
	}
	return matches
}

// fallbackPass surfaces plausible but unverified medicine names by suffix.
// Matches are kept in pattern-then-occurrence order and are not deduplicated.
func fallbackPass(normalized string) []entities.Medicine {
	var words []string
	for _, pattern := range fallbackPatterns {
		words = append(words, pattern.FindAllString(normalized, -1)...)
	}

	if len(words) > maxFallbackResults {
		words = words[:maxFallbackResults]
	}

	var matches []entities.Medicine
	for _, word := range words {
		matches = append(matches, synthesizeRecord(word))
	}
	return matches
}

// synthesizeRecord builds a placeholder record for an unverified medicine
// name found by the fallback pass.
func synthesizeRecord(word string) entities.Medicine {
	// Casers are stateful, so a fresh one is used per record to keep
	// Match safe for concurrent callers.
	return entities.Medicine{
		Name:        cases.Title(language.English).String(word),
		GenericName: "Please consult your pharmacist",
		Dosage:      "As prescribed",
		Frequency:   "As prescribed",
		Duration:    "As prescribed",
		SideEffects: "Consult your doctor or pharmacist",
		Precautions: "Follow your doctor's instructions",
	}
}
