package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CheckFunc is an auxiliary component check.
type CheckFunc func(ctx context.Context) error
