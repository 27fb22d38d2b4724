// Package mocks provides testify-based mocks of the observability
// contracts, plus no-op implementations for tests that only need to
// satisfy dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/types"
)

// MockLogger is a testify mock of types.Logger.
type MockLogger struct {
	mock.Mock
}

var _ types.Logger = (*MockLogger)(nil)

func (m *MockLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	m.Called(ctx, msg, err, fields)
}

func (m *MockLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) WithFields(fields types.Fields) types.Logger {
	args := m.Called(fields)
	return args.Get(0).(types.Logger)
}

// NopLogger discards every entry. Use it when a test does not care about
// log output.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

func (NopLogger) Info(context.Context, string, types.Fields)         {}
func (NopLogger) Error(context.Context, string, error, types.Fields) {}
func (NopLogger) Warn(context.Context, string, types.Fields)         {}
func (NopLogger) Debug(context.Context, string, types.Fields)        {}
func (n NopLogger) WithFields(types.Fields) types.Logger             { return n }
