package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
)

// InsertBounties stores a batch inside one transaction so a failing
// insert leaves no partial batch behind.
func (s *Store) InsertBounties(ctx context.Context, bounties []*bounty.Bounty) error {
	if len(bounties) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bounties {
		query := s.qb.Insert("bounties").
			Columns("audit_id", "issue_id", "poster", "reward_amount", "token_ref",
				"deadline", "status", "winner", "created_at", "resolved_at").
			Values(b.AuditID, b.IssueID, b.Poster, b.RewardAmount, b.TokenRef,
				b.Deadline, b.Status, b.Winner, b.CreatedAt, b.ResolvedAt).
			Suffix("RETURNING id")

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, sqlStr, args...).Scan(&b.ID); err != nil {
			s.metrics.RecordError("bounty_insert", "exec")
			return fmt.Errorf("failed to insert bounty: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bounties: %w", err)
	}

	s.metrics.RecordSuccess("bounty_insert")
	return nil
}

func (s *Store) GetBounty(ctx context.Context, id int64) (*bounty.Bounty, error) {
	query := s.qb.Select("id", "audit_id", "issue_id", "poster", "reward_amount", "token_ref",
		"deadline", "status", "winner", "created_at", "resolved_at").
		From("bounties").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var b bounty.Bounty
	if err := s.db.GetContext(ctx, &b, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bounty.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bounty: %w", err)
	}
	return &b, nil
}

func (s *Store) UpdateBounty(ctx context.Context, b *bounty.Bounty) error {
	query := s.qb.Update("bounties").
		Set("status", b.Status).
		Set("winner", b.Winner).
		Set("resolved_at", b.ResolvedAt).
		Where(squirrel.Eq{"id": b.ID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		s.metrics.RecordError("bounty_update", "exec")
		return fmt.Errorf("failed to update bounty: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return bounty.ErrNotFound
	}

	s.metrics.RecordSuccess("bounty_update")
	return nil
}

func (s *Store) ListBounties(ctx context.Context, status *bounty.BountyStatus) ([]*bounty.Bounty, error) {
	query := s.qb.Select("id", "audit_id", "issue_id", "poster", "reward_amount", "token_ref",
		"deadline", "status", "winner", "created_at", "resolved_at").
		From("bounties").
		OrderBy("id ASC")

	if status != nil {
		query = query.Where(squirrel.Eq{"status": *status})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var bounties []*bounty.Bounty
	if err := s.db.SelectContext(ctx, &bounties, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list bounties: %w", err)
	}
	return bounties, nil
}
