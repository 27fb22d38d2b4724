// Package postgres implements the persistence registry on PostgreSQL.
// Queries are built with squirrel and executed through sqlx; ids are
// assigned by the database with RETURNING clauses.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
)

// Store implements repository.Registry on a PostgreSQL connection pool.
type Store struct {
	db      *sqlx.DB
	qb      squirrel.StatementBuilderType
	logger  observability.Logger
	metrics observability.Metrics
}

var _ repository.Registry = (*Store)(nil)

// New connects to PostgreSQL and verifies the connection.
func New(cfg *config.DatabaseConfig, provider observability.Provider) (*Store, error) {
	logger := provider.Logger("postgres")
	metrics := provider.Metrics("postgres")

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		metrics.RecordError("db_connect", "ping")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info(ctx, "connected to PostgreSQL", observability.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	})
	metrics.RecordSuccess("db_connect")

	return &Store{
		db:      db,
		qb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Audits() repository.AuditStore           { return s }
func (s *Store) Bounties() repository.BountyStore        { return s }
func (s *Store) Submissions() repository.SubmissionStore { return s }
func (s *Store) Commitments() repository.CommitmentStore { return s }
func (s *Store) Credentials() repository.CredentialStore { return s }
