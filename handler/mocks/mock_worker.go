// Package mocks provides testify mocks for the handler contracts.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
)

// MockWorker is a testify mock of handler.Worker.
type MockWorker struct {
	mock.Mock
}

var _ handler.Worker = (*MockWorker)(nil)

func (m *MockWorker) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockWorker) Process(ctx context.Context, request handler.Request) (handler.Response, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(handler.Response), args.Error(1)
}

func (m *MockWorker) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
