// Package types defines the observability contracts shared by every
// component of the coordination engine.
//
// The package keeps abstraction minimal: a structured Logger, a
// Prometheus-backed Metrics collector, and a Provider that hands out
// component-scoped instances of both.
package types

import (
	"context"
	"io"
)

// Fields is a map of structured key-value pairs attached to log entries.
type Fields map[string]interface{}

// Logger is the contract for structured, JSON-formatted logging.
// All methods take a context so trace and request identifiers can be
// extracted and correlated across the audit pipeline.
type Logger interface {
	// Info logs general operational information.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs a failure together with the causing error.
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a potentially harmful situation that did not stop the
	// operation.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs detailed troubleshooting information, usually filtered
	// out in production.
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger that includes the given fields in
	// every subsequent entry. Useful for pinning audit or bounty ids to
	// a whole operation.
	WithFields(fields Fields) Logger
}

// Metrics is the contract for Prometheus-compatible metrics collection.
type Metrics interface {
	// RecordSuccess increments the success counter for an operation type.
	RecordSuccess(operationType string)

	// RecordError increments the error counters for an operation and
	// error category.
	RecordError(operationType string, errorType string)

	// RecordDuration records an operation duration in seconds.
	RecordDuration(operation string, duration float64)

	// RecordPayloadSize records the size in bytes of a stored payload
	// (source artifact, analysis report, solution).
	RecordPayloadSize(payloadType string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Pair with EndOperation, typically via defer.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	EndOperation(operation string)
}

// Config carries the observability settings shared by all components.
type Config struct {
	// ServiceName identifies the service in logs and metric prefixes
	ServiceName string
	// Environment is the deployment environment (local, staging, production)
	Environment string
	// LogLevel is the minimum level emitted ("debug", "info", "warn", "error")
	LogLevel string
	// LogOutput is where entries are written; defaults to os.Stdout
	LogOutput io.Writer
	// AdditionalFields are included in every entry from every component
	AdditionalFields Fields
}

// Provider manages Logger and Metrics instances per component.
type Provider interface {
	// Logger returns the singleton Logger for a component.
	Logger(component string) Logger

	// Metrics returns the singleton Metrics for a component.
	Metrics(component string) Metrics
}
