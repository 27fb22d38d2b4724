// Package config loads and validates the engine configuration from
// environment variables and optional .env files.
//
// Runtime behavior (risk thresholds, fee basis points, reveal window) is
// captured in one immutable struct handed to each component at
// construction. The only sanctioned way to change values at runtime is the
// provider's explicit Reload, which re-validates the whole configuration.
package config

import (
	"fmt"
	"time"
)

// Config is the complete engine configuration.
type Config struct {
	// Core
	ServiceName string
	Environment string
	LogLevel    string
	Version     string

	Bounty       BountyConfig
	CommitReveal CommitRevealConfig
	Analysis     AnalysisConfig
	Storage      StorageConfig
	Queue        QueueConfig
	Database     DatabaseConfig
	Handler      HandlerConfig
}

// BountyConfig drives the bounty factory and escrow lifecycle.
type BountyConfig struct {
	// AutoBountyEnabled gates automatic bounty creation on completion
	AutoBountyEnabled bool
	// HighRiskThreshold is the minimum final score that triggers bounties
	HighRiskThreshold int
	// MaxBountiesPerAudit caps how many issues get a bounty per audit
	MaxBountiesPerAudit int
	// DefaultRewardPerIssue in the smallest token unit
	DefaultRewardPerIssue uint64
	// DefaultDuration from creation to deadline
	DefaultDuration time.Duration
	// PlatformFeeBps is the resolution fee in basis points (of 10000)
	PlatformFeeBps uint64
	// PlatformAccount receives the platform fee
	PlatformAccount string
	// TokenRef identifies the reward token
	TokenRef string
}

// CommitRevealConfig drives the commit-reveal protocol.
type CommitRevealConfig struct {
	// RevealWindow is the time a hunter has to reveal after committing.
	// Fixed at protocol initialization.
	RevealWindow time.Duration
}

// AnalysisConfig drives the scoring aggregator.
type AnalysisConfig struct {
	// StageTimeout bounds each analysis stage
	StageTimeout time.Duration
	// MaxSourceBytes caps how much source is fetched for analysis
	MaxSourceBytes int64
}

// StorageConfig selects and configures the content-addressable store.
type StorageConfig struct {
	// Provider is one of "memory", "s3", "minio"
	Provider string
	Bucket   string
	S3       S3Config
	MinIO    MinIOConfig
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// QueueConfig selects and configures the audit event queue.
type QueueConfig struct {
	// Provider is one of "memory", "rabbitmq"
	Provider   string
	BufferSize int
	RabbitMQ   RabbitMQConfig
}

type RabbitMQConfig struct {
	URL       string
	QueueName string
}

// DatabaseConfig selects and configures the entity store backend.
type DatabaseConfig struct {
	// Provider is one of "memory", "postgres"
	Provider     string
	Host         string
	Port         int
	Username     string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// HandlerConfig configures the request handler and its platform adapter.
type HandlerConfig struct {
	// Platform is one of "http", "lambda"
	Platform       string
	Addr           string
	Timeout        time.Duration
	MaxRequestSize int64
	EnableHealth   bool
	EnableMetrics  bool
}

// Validate checks cross-field constraints. It is called on every Load and
// Reload; an invalid configuration never becomes visible to components.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name must not be empty")
	}

	if c.Bounty.PlatformFeeBps > 10000 {
		return fmt.Errorf("platform fee %d exceeds 10000 basis points", c.Bounty.PlatformFeeBps)
	}
	if c.Bounty.HighRiskThreshold < 0 || c.Bounty.HighRiskThreshold > 100 {
		return fmt.Errorf("high risk threshold %d out of range [0,100]", c.Bounty.HighRiskThreshold)
	}
	if c.Bounty.AutoBountyEnabled {
		if c.Bounty.DefaultRewardPerIssue == 0 {
			return fmt.Errorf("default reward must be positive when auto bounty is enabled")
		}
		if c.Bounty.MaxBountiesPerAudit <= 0 {
			return fmt.Errorf("max bounties per audit must be positive when auto bounty is enabled")
		}
		if c.Bounty.DefaultDuration <= 0 {
			return fmt.Errorf("default bounty duration must be positive")
		}
	}

	if c.CommitReveal.RevealWindow <= 0 {
		return fmt.Errorf("reveal window must be positive")
	}

	switch c.Storage.Provider {
	case "memory":
	case "s3", "minio":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket required for provider %q", c.Storage.Provider)
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Storage.Provider)
	}

	switch c.Queue.Provider {
	case "memory":
		if c.Queue.BufferSize <= 0 {
			return fmt.Errorf("queue buffer size must be positive")
		}
	case "rabbitmq":
		if c.Queue.RabbitMQ.URL == "" {
			return fmt.Errorf("rabbitmq url required for queue provider rabbitmq")
		}
	default:
		return fmt.Errorf("unsupported queue provider: %s", c.Queue.Provider)
	}

	switch c.Database.Provider {
	case "memory":
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("postgres host and database are required")
		}
	default:
		return fmt.Errorf("unsupported database provider: %s", c.Database.Provider)
	}

	return nil
}
