// Package health aggregates component health checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	dataset DatasetChecker
	cache   CachePinger
}

// New creates a Service. cache can be nil.
func New(dataset DatasetChecker, cache CachePinger) *Service {
	return &Service{dataset: dataset, cache: cache}
}

// Check runs health checks against all components. A missing dataset degrades
// the report; it does not make the service unhealthy, since a reload can
// still fix it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.dataset.Check(ctx); err != nil {
		checks["dataset"] = CheckError
	} else {
		checks["dataset"] = CheckOK
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	failures := 0
	for _, r := range checks {
		if r == CheckError {
			failures++
		}
	}
	switch {
	case failures == 0:
		status = Healthy
	case failures == len(checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
