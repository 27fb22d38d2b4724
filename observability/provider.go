// Package observability provides the centralized provider for logging and
// metrics components used throughout the coordination engine.
package observability

import (
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/logger"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/metrics"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/types"
)

// Type aliases re-exported so consumers only import this package.
type (
	Logger   = types.Logger
	Metrics  = types.Metrics
	Fields   = types.Fields
	Config   = types.Config
	Provider = types.Provider
)

// DefaultProvider implements Provider. It hands out one Logger and one
// Metrics instance per component, created lazily and cached behind a
// read-write mutex.
type DefaultProvider struct {
	config  *Config
	reg     prometheus.Registerer
	loggers map[string]Logger
	metrics map[string]Metrics
	mu      sync.RWMutex
}

// NewProvider creates a provider registering metrics with the default
// Prometheus registry. If LogOutput is unset it defaults to os.Stdout.
func NewProvider(config *Config) Provider {
	return NewProviderWithRegisterer(config, prometheus.DefaultRegisterer)
}

// NewProviderWithRegisterer creates a provider registering metrics with a
// caller-supplied registry. Tests use this to avoid duplicate registration
// across cases.
func NewProviderWithRegisterer(config *Config, reg prometheus.Registerer) Provider {
	if config.LogOutput == nil {
		config.LogOutput = os.Stdout
	}

	return &DefaultProvider{
		config:  config,
		reg:     reg,
		loggers: make(map[string]Logger),
		metrics: make(map[string]Metrics),
	}
}

// Logger returns the Logger for a component. The logger carries the
// provider's additional fields plus a "component" field, and its service
// name is "{service}.{component}".
func (p *DefaultProvider) Logger(component string) Logger {
	p.mu.RLock()
	if l, exists := p.loggers[component]; exists {
		p.mu.RUnlock()
		return l
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if l, exists := p.loggers[component]; exists {
		return l
	}

	fields := make(Fields)
	for k, v := range p.config.AdditionalFields {
		fields[k] = v
	}
	fields["component"] = component

	serviceName := fmt.Sprintf("%s.%s", p.config.ServiceName, component)

	l := logger.New(
		serviceName,
		p.config.Environment,
		p.config.LogLevel,
		p.config.LogOutput,
		fields,
	)

	p.loggers[component] = l
	return l
}

// Metrics returns the Metrics collector for a component. Metric names are
// prefixed "{service}_{component}".
func (p *DefaultProvider) Metrics(component string) Metrics {
	p.mu.RLock()
	if m, exists := p.metrics[component]; exists {
		p.mu.RUnlock()
		return m
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if m, exists := p.metrics[component]; exists {
		return m
	}

	m := metrics.New(fmt.Sprintf("%s_%s", p.config.ServiceName, component), p.reg)
	p.metrics[component] = m
	return m
}
