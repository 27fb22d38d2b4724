package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
)

func (s *Store) InsertCredential(ctx context.Context, c *credential.Credential) error {
	query := s.qb.Insert("credentials").
		Columns("id", "audit_id", "bounty_id", "hunter", "quality_score", "evidence_ref", "issued_at").
		Values(c.ID, c.AuditID, c.BountyID, c.Hunter, c.QualityScore, c.EvidenceRef, c.IssuedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		s.metrics.RecordError("credential_insert", "exec")
		return fmt.Errorf("failed to insert credential: %w", err)
	}

	s.metrics.RecordSuccess("credential_insert")
	return nil
}

func (s *Store) ListCredentials(ctx context.Context, hunter string) ([]*credential.Credential, error) {
	query := s.qb.Select("id", "audit_id", "bounty_id", "hunter", "quality_score", "evidence_ref", "issued_at").
		From("credentials").
		Where(squirrel.Eq{"hunter": hunter}).
		OrderBy("issued_at ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var creds []*credential.Credential
	if err := s.db.SelectContext(ctx, &creds, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return creds, nil
}
