// Package health aggregates component checks into a single ok/degraded report.
package health

import "context"

// Status is the aggregated service health.
type Status string

const (
	// Healthy means every checked component responded.
	Healthy Status = "ok"
	// Degraded means at least one component failed its check.
	Degraded Status = "degraded"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report carries the aggregate status plus per-component outcomes.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the component checks.
type Service struct {
	index     IndexPinger
	embedding EmbeddingChecker
}

// New creates a health service. embedding may be nil; the keyword-mode
// deployment has no embedding provider and its check is simply absent from
// the report rather than failing.
func New(index IndexPinger, embedding EmbeddingChecker) *Service {
	return &Service{index: index, embedding: embedding}
}

// Check probes the index and, when configured, the embedding provider.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"index": resultOf(s.index.Ping(ctx)),
	}
	if s.embedding != nil {
		checks["embedding"] = resultOf(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, c := range checks {
		if c == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
