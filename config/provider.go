package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Provider manages configuration lifecycle and ensures singleton behavior.
type Provider struct {
	config *Config
	mu     sync.RWMutex
	loaded bool
}

var (
	instance *Provider
	once     sync.Once
)

// GetProvider returns the singleton configuration provider instance.
func GetProvider() *Provider {
	once.Do(func() {
		instance = &Provider{}
	})
	return instance
}

// Load loads configuration from .env files and the environment. It should
// be called once at application startup.
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil
	}

	if err := p.loadEnvFiles(); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := parseConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	p.loaded = true
	return nil
}

// MustLoad loads configuration and panics on error. Use during application
// initialization where a bad configuration is fatal.
func (p *Provider) MustLoad() {
	if err := p.Load(); err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
}

// Get returns the current configuration, or an error if Load has not run.
func (p *Provider) Get() (*Config, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded || p.config == nil {
		return nil, fmt.Errorf("configuration not loaded; call Load() first")
	}
	return p.config, nil
}

// MustGet returns the configuration or panics if not loaded.
func (p *Provider) MustGet() *Config {
	cfg, err := p.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to get configuration: %v", err))
	}
	return cfg
}

// Reload re-parses and re-validates configuration from the current
// environment. This is the audited update path for runtime values such as
// thresholds and fees; an invalid environment leaves the previous
// configuration in place.
func (p *Provider) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := parseConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	p.loaded = true
	return nil
}

// loadEnvFiles loads .env files in order of precedence: .env, then
// .env.{ENVIRONMENT}, then .env.local. All files are optional.
func (p *Provider) loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	env := os.Getenv("ENVIRONMENT")
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}

// parseConfig builds a Config from environment variables with defaults.
func parseConfig() *Config {
	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "audit-bounty-engine"),
		Environment: getEnv("ENVIRONMENT", "local"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),

		Bounty: BountyConfig{
			AutoBountyEnabled:     getBool("AUTO_BOUNTY_ENABLED", true),
			HighRiskThreshold:     getInt("HIGH_RISK_THRESHOLD", 50),
			MaxBountiesPerAudit:   getInt("MAX_BOUNTIES_PER_AUDIT", 10),
			DefaultRewardPerIssue: getUint64("DEFAULT_REWARD_PER_ISSUE", 1000),
			DefaultDuration:       getDuration("DEFAULT_BOUNTY_DURATION", "168h"),
			PlatformFeeBps:        getUint64("PLATFORM_FEE_BPS", 100),
			PlatformAccount:       getEnv("PLATFORM_ACCOUNT", "platform"),
			TokenRef:              getEnv("REWARD_TOKEN_REF", "cbt"),
		},

		CommitReveal: CommitRevealConfig{
			RevealWindow: getDuration("REVEAL_WINDOW", "10m"),
		},

		Analysis: AnalysisConfig{
			StageTimeout:   getDuration("ANALYSIS_STAGE_TIMEOUT", "60s"),
			MaxSourceBytes: int64(getInt("ANALYSIS_MAX_SOURCE_BYTES", 10*1024*1024)),
		},

		Storage: StorageConfig{
			Provider: getEnv("STORAGE_PROVIDER", "memory"),
			Bucket:   getEnv("STORAGE_BUCKET", ""),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-2"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
			},
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				UseSSL:    getBool("MINIO_USE_SSL", false),
			},
		},

		Queue: QueueConfig{
			Provider:   getEnv("QUEUE_PROVIDER", "memory"),
			BufferSize: getInt("QUEUE_BUFFER_SIZE", 128),
			RabbitMQ: RabbitMQConfig{
				URL:       getEnv("RABBITMQ_URL", ""),
				QueueName: getEnv("RABBITMQ_QUEUE", "audit-requests"),
			},
		},

		Database: DatabaseConfig{
			Provider:     getEnv("DB_PROVIDER", "memory"),
			Host:         getEnv("DB_HOST", ""),
			Port:         getInt("DB_PORT", 5432),
			Username:     getEnv("DB_USER", ""),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", ""),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 5),
		},

		Handler: HandlerConfig{
			Platform:       getEnv("HANDLER_PLATFORM", "http"),
			Addr:           getEnv("HANDLER_ADDR", ":8080"),
			Timeout:        getDuration("HANDLER_TIMEOUT", "30s"),
			MaxRequestSize: int64(getInt("HANDLER_MAX_REQUEST_SIZE", 10*1024*1024)),
			EnableHealth:   getBool("HANDLER_ENABLE_HEALTH", true),
			EnableMetrics:  getBool("HANDLER_ENABLE_METRICS", true),
		},
	}
}
