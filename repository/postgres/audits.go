package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
)

func (s *Store) InsertAudit(ctx context.Context, a *audit.Audit) error {
	query := s.qb.Insert("audits").
		Columns("requester", "source_ref", "score", "report_ref", "status", "created_at", "completed_at").
		Values(a.Requester, a.SourceRef, a.Score, a.ReportRef, a.Status, a.CreatedAt, a.CompletedAt).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if err := s.db.QueryRowxContext(ctx, sqlStr, args...).Scan(&a.ID); err != nil {
		s.metrics.RecordError("audit_insert", "exec")
		return fmt.Errorf("failed to insert audit: %w", err)
	}

	s.metrics.RecordSuccess("audit_insert")
	return nil
}

func (s *Store) GetAudit(ctx context.Context, id int64) (*audit.Audit, error) {
	query := s.qb.Select("id", "requester", "source_ref", "score", "report_ref", "status", "created_at", "completed_at").
		From("audits").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var a audit.Audit
	if err := s.db.GetContext(ctx, &a, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, audit.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	ids, err := s.issueIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	a.IssueIDs = ids

	return &a, nil
}

func (s *Store) UpdateAudit(ctx context.Context, a *audit.Audit) error {
	query := s.qb.Update("audits").
		Set("score", a.Score).
		Set("report_ref", a.ReportRef).
		Set("status", a.Status).
		Set("completed_at", a.CompletedAt).
		Where(squirrel.Eq{"id": a.ID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		s.metrics.RecordError("audit_update", "exec")
		return fmt.Errorf("failed to update audit: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return audit.ErrNotFound
	}

	s.metrics.RecordSuccess("audit_update")
	return nil
}

func (s *Store) InsertIssues(ctx context.Context, issues []*issue.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, iss := range issues {
		query := s.qb.Insert("issues").
			Columns("audit_id", "type", "severity", "description", "file", "line", "snippet", "stage").
			Values(iss.AuditID, iss.Type, iss.Severity, iss.Description, iss.File, iss.Line, iss.Snippet, iss.Stage).
			Suffix("RETURNING id")

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, sqlStr, args...).Scan(&iss.ID); err != nil {
			s.metrics.RecordError("issue_insert", "exec")
			return fmt.Errorf("failed to insert issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit issues: %w", err)
	}

	s.metrics.RecordSuccess("issue_insert")
	return nil
}

func (s *Store) ListIssues(ctx context.Context, auditID int64) ([]*issue.Issue, error) {
	query := s.qb.Select("id", "audit_id", "type", "severity", "description", "file", "line", "snippet", "stage").
		From("issues").
		Where(squirrel.Eq{"audit_id": auditID}).
		OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var issues []*issue.Issue
	if err := s.db.SelectContext(ctx, &issues, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

func (s *Store) issueIDs(ctx context.Context, auditID int64) ([]int64, error) {
	query := s.qb.Select("id").
		From("issues").
		Where(squirrel.Eq{"audit_id": auditID}).
		OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list issue ids: %w", err)
	}
	return ids, nil
}
