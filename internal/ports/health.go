package ports

import "context"

// HealthChecker reports the state of a dependency. The mail and push
// provider clients implement it from their circuit breaker state.
type HealthChecker interface {
	// Name identifies the dependency in readiness reports ("mail",
	// "pushover").
	Name() string

	// HealthCheck returns nil when the dependency is usable. Errors
	// containing "degraded" mark a dependency that is recovering.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects the checkers behind GET /health/ready.
type HealthRegistry interface {
	// Register adds checker, replacing one registered under the same name.
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns the results by name. A nil
	// error means healthy.
	CheckAll(ctx context.Context) map[string]error
}
