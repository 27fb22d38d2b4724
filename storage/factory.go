package storage

import (
	"fmt"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/adapters/memory"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/adapters/minio"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/adapters/s3"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/types"
)

// NewBackend creates the object storage implementation selected by
// configuration. This is the only place that knows about concrete
// adapters.
func NewBackend(cfg *config.StorageConfig, logger observability.Logger, metrics observability.Metrics) (types.ObjectStorage, error) {
	switch cfg.Provider {
	case "memory":
		return memory.New(), nil
	case "s3":
		return s3.NewClient(cfg, logger, metrics)
	case "minio":
		return minio.NewClient(cfg, logger, metrics)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
