package matcher

import (
	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/formulary/entities"
	"github.com/giygas/prescriptions-api/interfaces"
	"github.com/giygas/prescriptions-api/metrics"
)

// Compile-time check to ensure Service implements Matcher
var _ interfaces.Matcher = (*Service)(nil)

// Service adapts the pure Match function to the interfaces.Matcher
// contract and records which pass resolved each invocation. Match itself
// stays side-effect free; the counters live here at the wiring boundary.
type Service struct{}

// NewService creates a matcher service
func NewService() *Service {
	return &Service{}
}

// Match maps extracted prescription text to medicine records
func (s *Service) Match(text string, table *formulary.Table) []entities.Medicine {
	normalized := normalize(text)

	if results := exactPass(normalized, table); len(results) > 0 {
		metrics.MatchesTotal.WithLabelValues("exact").Inc()
		return results
	}

	results := fallbackPass(normalized)
	if len(results) > 0 {
		metrics.MatchesTotal.WithLabelValues("fallback").Inc()
	} else {
		metrics.MatchesTotal.WithLabelValues("none").Inc()
	}
	return results
}
