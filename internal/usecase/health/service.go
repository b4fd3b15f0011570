package health

import (
	"context"
	"errors"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; recommendations may still be served.
	Degraded Status = "degraded"
	// Unhealthy indicates the rating dataset is unusable.
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

// Component names reported in Checks.
const (
	ComponentDatabase = "database"
	ComponentContent  = "content"
	ComponentDataset  = "dataset"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	content ContentChecker
	dataset DatasetChecker
}

// New creates a Service. Any checker can be nil, in which case it is not reported.
func New(db DBPinger, content ContentChecker, dataset DatasetChecker) *Service {
	return &Service{db: db, content: content, dataset: dataset}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		checks[ComponentDatabase] = result(s.db.Ping(ctx))
	}
	if s.content != nil {
		checks[ComponentContent] = result(s.content.HealthCheck(ctx))
	}
	if s.dataset != nil {
		var err error
		if _, ratings := s.dataset.Stats(); ratings == 0 {
			err = errors.New("empty dataset")
		}
		checks[ComponentDataset] = result(err)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentDataset] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
