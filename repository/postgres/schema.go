package postgres

import "context"

// schema is the engine's DDL, applied idempotently at startup. Entity
// tables are append-mostly: rows are only ever inserted or transitioned
// by status, never deleted.
const schema = `
CREATE TABLE IF NOT EXISTS audits (
    id           BIGSERIAL PRIMARY KEY,
    requester    TEXT        NOT NULL,
    source_ref   TEXT        NOT NULL,
    score        INTEGER     NOT NULL DEFAULT 0,
    report_ref   TEXT        NOT NULL DEFAULT '',
    status       TEXT        NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS issues (
    id          BIGSERIAL PRIMARY KEY,
    audit_id    BIGINT  NOT NULL REFERENCES audits (id),
    type        TEXT    NOT NULL,
    severity    TEXT    NOT NULL,
    description TEXT    NOT NULL,
    file        TEXT    NOT NULL DEFAULT '',
    line        INTEGER NOT NULL DEFAULT 0,
    snippet     TEXT    NOT NULL DEFAULT '',
    stage       TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS issues_audit_id_idx ON issues (audit_id);

CREATE TABLE IF NOT EXISTS bounties (
    id            BIGSERIAL PRIMARY KEY,
    audit_id      BIGINT      NOT NULL,
    issue_id      BIGINT      NOT NULL,
    poster        TEXT        NOT NULL,
    reward_amount BIGINT      NOT NULL,
    token_ref     TEXT        NOT NULL,
    deadline      TIMESTAMPTZ NOT NULL,
    status        TEXT        NOT NULL,
    winner        TEXT,
    created_at    TIMESTAMPTZ NOT NULL,
    resolved_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS bounties_status_idx ON bounties (status);

CREATE TABLE IF NOT EXISTS submissions (
    id           BIGSERIAL PRIMARY KEY,
    bounty_id    BIGINT      NOT NULL REFERENCES bounties (id),
    hunter       TEXT        NOT NULL,
    solution_ref TEXT        NOT NULL,
    decision     TEXT        NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_bounty_id_idx ON submissions (bounty_id);

CREATE TABLE IF NOT EXISTS commitments (
    hunter         TEXT        NOT NULL,
    bounty_id      BIGINT      NOT NULL,
    commit_hash    TEXT        NOT NULL,
    committed_at   TIMESTAMPTZ NOT NULL,
    revealed       BOOLEAN     NOT NULL DEFAULT FALSE,
    revealed_value TEXT,
    revealed_at    TIMESTAMPTZ,
    PRIMARY KEY (hunter, bounty_id)
);

CREATE TABLE IF NOT EXISTS credentials (
    id            TEXT        PRIMARY KEY,
    audit_id      BIGINT      NOT NULL,
    bounty_id     BIGINT      NOT NULL,
    hunter        TEXT        NOT NULL,
    quality_score INTEGER     NOT NULL,
    evidence_ref  TEXT        NOT NULL,
    issued_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS credentials_hunter_idx ON credentials (hunter);
`

// EnsureSchema creates the engine tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
