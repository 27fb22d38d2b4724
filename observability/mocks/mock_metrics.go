package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/types"
)

// MockMetrics is a testify mock of types.Metrics.
type MockMetrics struct {
	mock.Mock
}

var _ types.Metrics = (*MockMetrics)(nil)

func (m *MockMetrics) RecordSuccess(operationType string) {
	m.Called(operationType)
}

func (m *MockMetrics) RecordError(operationType string, errorType string) {
	m.Called(operationType, errorType)
}

func (m *MockMetrics) RecordDuration(operation string, duration float64) {
	m.Called(operation, duration)
}

func (m *MockMetrics) RecordPayloadSize(payloadType string, bytes int64) {
	m.Called(payloadType, bytes)
}

func (m *MockMetrics) StartOperation(operation string) {
	m.Called(operation)
}

func (m *MockMetrics) EndOperation(operation string) {
	m.Called(operation)
}

// NopMetrics ignores every observation.
type NopMetrics struct{}

var _ types.Metrics = (*NopMetrics)(nil)

func (NopMetrics) RecordSuccess(string)            {}
func (NopMetrics) RecordError(string, string)      {}
func (NopMetrics) RecordDuration(string, float64)  {}
func (NopMetrics) RecordPayloadSize(string, int64) {}
func (NopMetrics) StartOperation(string)           {}
func (NopMetrics) EndOperation(string)             {}
