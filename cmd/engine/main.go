package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/analysis"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/bountysvc"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/commitreveal"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/engine"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler/platforms"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/ledger"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
	queuememory "github.com/taufiqnair-gif/codebounty-ai-sub000/queue/adapters/memory"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue/adapters/rabbitmq"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
	repomemory "github.com/taufiqnair-gif/codebounty-ai-sub000/repository/memory"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository/postgres"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/token"
)

func main() {
	cfg := loadConfiguration()
	provider := initializeObservability(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := initializeDependencies(ctx, cfg, provider)
	defer deps.close()

	app := buildApplication(cfg, provider, deps)

	startApplication(ctx, cfg, provider, app)
}

// dependencies holds the infrastructure components behind the services.
type dependencies struct {
	registry repository.Registry
	contents *storage.ContentStore
	events   queue.Queue
	bank     token.Bank
	closers  []func() error
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// application holds the assembled service stack.
type application struct {
	handler  *handler.Handler
	consumer *analysis.Consumer
}

func loadConfiguration() *config.Config {
	cfgProvider := config.GetProvider()
	cfgProvider.MustLoad()
	return cfgProvider.MustGet()
}

func initializeObservability(cfg *config.Config) observability.Provider {
	return observability.NewProvider(&observability.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
		AdditionalFields: observability.Fields{
			"version": cfg.Version,
		},
	})
}

func initializeDependencies(ctx context.Context, cfg *config.Config, provider observability.Provider) *dependencies {
	deps := &dependencies{
		bank: token.NewMemoryBank(),
	}

	deps.registry = initializeRegistry(ctx, cfg, provider, deps)
	deps.contents = initializeContentStore(cfg, provider)
	deps.events = initializeQueue(cfg, provider, deps)

	return deps
}

func initializeRegistry(ctx context.Context, cfg *config.Config, provider observability.Provider, deps *dependencies) repository.Registry {
	switch cfg.Database.Provider {
	case "postgres":
		store, err := postgres.New(&cfg.Database, provider)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
		deps.closers = append(deps.closers, store.Close)
		return store
	default:
		return repomemory.New()
	}
}

func initializeContentStore(cfg *config.Config, provider observability.Provider) *storage.ContentStore {
	logger := provider.Logger("storage")
	metrics := provider.Metrics("storage")

	backend, err := storage.NewBackend(&cfg.Storage, logger, metrics)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	bucket := cfg.Storage.Bucket
	if bucket == "" {
		bucket = "contents"
	}
	return storage.NewContentStore(backend, bucket, logger, metrics)
}

func initializeQueue(cfg *config.Config, provider observability.Provider, deps *dependencies) queue.Queue {
	switch cfg.Queue.Provider {
	case "rabbitmq":
		q, err := rabbitmq.New(&cfg.Queue.RabbitMQ, provider.Logger("queue"), provider.Metrics("queue"))
		if err != nil {
			log.Fatalf("failed to connect to queue: %v", err)
		}
		deps.closers = append(deps.closers, q.Close)
		return q
	default:
		q := queuememory.New(cfg.Queue.BufferSize)
		deps.closers = append(deps.closers, q.Close)
		return q
	}
}

func buildApplication(cfg *config.Config, provider observability.Provider, deps *dependencies) *application {
	audits := ledger.New(deps.registry.Audits(), deps.events, provider)
	bounties := bountysvc.NewService(deps.registry, deps.bank, &cfg.Bounty, provider)
	factory := bountysvc.NewFactory(bounties, deps.registry.Audits(), provider)
	commits := commitreveal.New(deps.registry.Commitments(), cfg.CommitReveal.RevealWindow, provider)

	aggregator := analysis.NewAggregator(analysis.DefaultAnalyzers(), deps.contents, cfg.Analysis.StageTimeout, provider)
	consumer := analysis.NewConsumer(deps.events, aggregator, audits, factory, provider)

	worker := engine.NewWorker(audits, bounties, commits, provider)
	h := handler.NewFactory(worker, provider, cfg.Handler).Create()

	return &application{
		handler:  h,
		consumer: consumer,
	}
}

func startApplication(ctx context.Context, cfg *config.Config, provider observability.Provider, app *application) {
	logger := provider.Logger("main")

	go func() {
		if err := app.consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "consumer stopped", err, nil)
		}
	}()

	logger.Info(ctx, "engine starting", observability.Fields{
		"service":  cfg.ServiceName,
		"platform": app.handler.Config().Platform,
	})

	switch app.handler.Config().Platform {
	case "lambda":
		platforms.NewLambdaAdapter(app.handler, &platforms.LambdaConfig{
			ProcessingTimeout:         cfg.Handler.Timeout,
			EnablePartialBatchFailure: true,
		}).Start()
	default:
		adapter := platforms.NewHTTPAdapter(app.handler)

		errCh := make(chan error, 1)
		go func() {
			errCh <- adapter.Serve(cfg.Handler.Addr)
		}()

		select {
		case err := <-errCh:
			log.Fatalf("server stopped: %v", err)
		case <-ctx.Done():
			logger.Info(context.Background(), "shutting down", nil)
		}
	}
}
