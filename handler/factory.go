package handler

import (
	"os"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
)

// Factory builds handlers with the standard middleware stack applied.
type Factory struct {
	worker   Worker
	provider observability.Provider
	cfg      config.HandlerConfig
}

func NewFactory(worker Worker, provider observability.Provider, cfg config.HandlerConfig) *Factory {
	return &Factory{
		worker:   worker,
		provider: provider,
		cfg:      cfg,
	}
}

// Create builds a handler for the configured platform, detecting it from
// the environment when unset.
func (f *Factory) Create() *Handler {
	if f.cfg.Platform == "" || f.cfg.Platform == "auto" {
		f.cfg.Platform = DetectPlatform()
	}

	h := NewHandler(f.worker, f.provider, &f.cfg)
	f.applyDefaultMiddleware(h)
	return h
}

// CreateHTTP builds a handler pinned to the HTTP platform.
func (f *Factory) CreateHTTP() *Handler {
	f.cfg.Platform = "http"
	return f.Create()
}

// CreateLambda builds a handler pinned to AWS Lambda.
func (f *Factory) CreateLambda() *Handler {
	f.cfg.Platform = "lambda"
	return f.Create()
}

// applyDefaultMiddleware adds the standard stack, outermost first.
func (f *Factory) applyDefaultMiddleware(h *Handler) {
	h.Use(RecoveryMiddleware(f.provider))

	if f.cfg.Timeout > 0 {
		h.Use(TimeoutMiddleware(f.cfg.Timeout))
	}
	if f.cfg.EnableMetrics {
		h.Use(MetricsMiddleware(f.provider))
	}

	h.Use(LoggingMiddleware(f.provider))
	h.Use(ValidationMiddleware())
}

// DetectPlatform infers the runtime platform from the environment.
func DetectPlatform() string {
	if _, exists := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME"); exists {
		return "lambda"
	}
	if _, exists := os.LookupEnv("AWS_LAMBDA_RUNTIME_API"); exists {
		return "lambda"
	}
	return "http"
}
