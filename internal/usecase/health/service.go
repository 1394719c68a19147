package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an auxiliary component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
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

type namedCheck struct {
	name string
	fn   CheckFunc
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	checks []namedCheck
}

// New creates a Service.
func New(db DBPinger) *Service {
	return &Service{db: db}
}

// WithCheck adds an auxiliary check. A failing auxiliary check degrades
// the report; it never makes it unhealthy.
func (s *Service) WithCheck(name string, fn CheckFunc) *Service {
	s.checks = append(s.checks, namedCheck{name: name, fn: fn})
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1+len(s.checks))
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for _, c := range s.checks {
		if err := c.fn(ctx); err != nil {
			checks[c.name] = CheckError
			if status == Healthy {
				status = Degraded
			}
			continue
		}
		checks[c.name] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
