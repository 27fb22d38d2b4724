// Package handler wraps a Worker with a middleware chain and adapts it to
// the deployment platform. The worker carries the engine's routing logic;
// everything here is transport plumbing shared by all platforms.
package handler

import (
	"context"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
)

// Middleware wraps a HandlerFunc to add a cross-cutting concern.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc is the core request processing signature middlewares wrap.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Handler runs requests through the middleware chain into the worker.
type Handler struct {
	worker      Worker
	obs         observability.Provider
	middlewares []Middleware
	config      *config.HandlerConfig
}

// NewHandler creates a bare handler without middleware. Most callers
// should use the Factory, which applies the standard stack.
func NewHandler(worker Worker, provider observability.Provider, cfg *config.HandlerConfig) *Handler {
	return &Handler{
		worker:      worker,
		obs:         provider,
		config:      cfg,
		middlewares: []Middleware{},
	}
}

// Use appends middleware to the chain. Middleware runs in the order it
// was added, outermost first.
func (h *Handler) Use(middleware Middleware) {
	h.middlewares = append(h.middlewares, middleware)
}

// Handle processes one request through the chain and the worker.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	chain := h.buildChain()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	ctx = context.WithValue(ctx, "request_id", req.ID)
	ctx = context.WithValue(ctx, "worker", h.worker.Name())
	ctx = context.WithValue(ctx, "platform", h.config.Platform)

	return chain(ctx, req)
}

// Health reports the worker's dependency health.
func (h *Handler) Health(ctx context.Context) error {
	return h.worker.Health(ctx)
}

// Worker exposes the wrapped worker.
func (h *Handler) Worker() Worker {
	return h.worker
}

// Config exposes the handler configuration.
func (h *Handler) Config() *config.HandlerConfig {
	return h.config
}

func (h *Handler) buildChain() HandlerFunc {
	chain := h.workerHandler
	for i := len(h.middlewares) - 1; i >= 0; i-- {
		chain = h.middlewares[i](chain)
	}
	return chain
}

func (h *Handler) workerHandler(ctx context.Context, req Request) (Response, error) {
	return h.worker.Process(ctx, req)
}
