package mocks

import (
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/types"
)

// NopProvider hands out no-op loggers and metrics. It is the default
// observability dependency in unit tests.
type NopProvider struct{}

var _ types.Provider = (*NopProvider)(nil)

func (NopProvider) Logger(string) types.Logger   { return NopLogger{} }
func (NopProvider) Metrics(string) types.Metrics { return NopMetrics{} }
