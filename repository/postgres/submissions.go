package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
)

func (s *Store) InsertSubmission(ctx context.Context, sub *submission.Submission) error {
	query := s.qb.Insert("submissions").
		Columns("bounty_id", "hunter", "solution_ref", "decision", "submitted_at").
		Values(sub.BountyID, sub.Hunter, sub.SolutionRef, sub.Decision, sub.SubmittedAt).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, sqlStr, args...).Scan(&sub.ID); err != nil {
		s.metrics.RecordError("submission_insert", "exec")
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	s.metrics.RecordSuccess("submission_insert")
	return nil
}

func (s *Store) GetSubmission(ctx context.Context, id int64) (*submission.Submission, error) {
	query := s.qb.Select("id", "bounty_id", "hunter", "solution_ref", "decision", "submitted_at").
		From("submissions").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var sub submission.Submission
	if err := s.db.GetContext(ctx, &sub, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, submission.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) UpdateSubmission(ctx context.Context, sub *submission.Submission) error {
	query := s.qb.Update("submissions").
		Set("decision", sub.Decision).
		Where(squirrel.Eq{"id": sub.ID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		s.metrics.RecordError("submission_update", "exec")
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return submission.ErrNotFound
	}

	s.metrics.RecordSuccess("submission_update")
	return nil
}

func (s *Store) ListSubmissions(ctx context.Context, bountyID int64) ([]*submission.Submission, error) {
	query := s.qb.Select("id", "bounty_id", "hunter", "solution_ref", "decision", "submitted_at").
		From("submissions").
		Where(squirrel.Eq{"bounty_id": bountyID}).
		OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var subs []*submission.Submission
	if err := s.db.SelectContext(ctx, &subs, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
