package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
)

// PutCommitment upserts on the (hunter, bounty_id) key: a fresh commit
// replaces whatever row the key held before.
func (s *Store) PutCommitment(ctx context.Context, c *commitment.Commitment) error {
	query := s.qb.Insert("commitments").
		Columns("hunter", "bounty_id", "commit_hash", "committed_at", "revealed", "revealed_value", "revealed_at").
		Values(c.Hunter, c.BountyID, c.CommitHash, c.CommittedAt, c.Revealed, c.RevealedValue, c.RevealedAt).
		Suffix(`ON CONFLICT (hunter, bounty_id) DO UPDATE SET
			commit_hash = EXCLUDED.commit_hash,
			committed_at = EXCLUDED.committed_at,
			revealed = EXCLUDED.revealed,
			revealed_value = EXCLUDED.revealed_value,
			revealed_at = EXCLUDED.revealed_at`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		s.metrics.RecordError("commitment_put", "exec")
		return fmt.Errorf("failed to put commitment: %w", err)
	}

	s.metrics.RecordSuccess("commitment_put")
	return nil
}

func (s *Store) GetCommitment(ctx context.Context, key commitment.Key) (*commitment.Commitment, error) {
	query := s.qb.Select("hunter", "bounty_id", "commit_hash", "committed_at", "revealed", "revealed_value", "revealed_at").
		From("commitments").
		Where(squirrel.Eq{"hunter": key.Hunter, "bounty_id": key.BountyID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var c commitment.Commitment
	if err := s.db.GetContext(ctx, &c, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commitment.ErrNoCommitment
		}
		return nil, fmt.Errorf("failed to get commitment: %w", err)
	}
	return &c, nil
}
