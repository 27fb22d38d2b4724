package handler

import (
	"context"
)

// Worker is the platform-agnostic processing contract. A worker routes
// typed requests to the engine's services without knowing whether they
// arrived over HTTP, Lambda or a test harness.
type Worker interface {
	// Name identifies the worker in logs and metrics.
	Name() string

	// Process dispatches one request and returns its response. Domain
	// failures are reported inside the response; an error return means
	// the request never reached a decision.
	Process(ctx context.Context, request Request) (Response, error)

	// Health verifies the worker's dependencies are reachable.
	Health(ctx context.Context) error
}
