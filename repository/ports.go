// Package repository defines the persistence ports for the coordination
// engine. Every entity type is stored as an append-mostly record keyed by
// a monotonically increasing id per type, or by a (hunter, bounty) composite
// key for commitments. Records are never physically deleted; terminal
// entities are only transitioned by status.
//
// Implementations must assign ids on insert and must return the entity
// package's sentinel not-found errors so that services can pass them
// through unchanged.
package repository

import (
	"context"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
)

// AuditStore persists audits and the issues they own.
type AuditStore interface {
	// InsertAudit stores a new audit and assigns its id.
	InsertAudit(ctx context.Context, a *audit.Audit) error

	// GetAudit returns the audit or audit.ErrNotFound.
	GetAudit(ctx context.Context, id int64) (*audit.Audit, error)

	// UpdateAudit replaces the stored audit record.
	UpdateAudit(ctx context.Context, a *audit.Audit) error

	// InsertIssues stores the issues of one audit and assigns their ids,
	// preserving input order.
	InsertIssues(ctx context.Context, issues []*issue.Issue) error

	// ListIssues returns the issues owned by an audit in insertion order.
	ListIssues(ctx context.Context, auditID int64) ([]*issue.Issue, error)
}

// BountyStore persists bounties.
type BountyStore interface {
	// InsertBounties stores a batch of bounties and assigns ids.
	// The batch is all-or-nothing: on error no bounty is stored.
	InsertBounties(ctx context.Context, bounties []*bounty.Bounty) error

	// GetBounty returns the bounty or bounty.ErrNotFound.
	GetBounty(ctx context.Context, id int64) (*bounty.Bounty, error)

	// UpdateBounty replaces the stored bounty record.
	UpdateBounty(ctx context.Context, b *bounty.Bounty) error

	// ListBounties returns bounties, optionally filtered by status,
	// ordered by id.
	ListBounties(ctx context.Context, status *bounty.BountyStatus) ([]*bounty.Bounty, error)
}

// SubmissionStore persists hunter submissions.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, s *submission.Submission) error

	// GetSubmission returns the submission or submission.ErrNotFound.
	GetSubmission(ctx context.Context, id int64) (*submission.Submission, error)

	UpdateSubmission(ctx context.Context, s *submission.Submission) error

	// ListSubmissions returns all submissions on a bounty in insertion order.
	ListSubmissions(ctx context.Context, bountyID int64) ([]*submission.Submission, error)
}

// CommitmentStore persists commitments keyed by (hunter, bounty).
type CommitmentStore interface {
	// PutCommitment stores or replaces the commitment for its key.
	PutCommitment(ctx context.Context, c *commitment.Commitment) error

	// GetCommitment returns the commitment or commitment.ErrNoCommitment.
	GetCommitment(ctx context.Context, key commitment.Key) (*commitment.Commitment, error)
}

// CredentialStore persists achievement credentials.
type CredentialStore interface {
	InsertCredential(ctx context.Context, c *credential.Credential) error
	ListCredentials(ctx context.Context, hunter string) ([]*credential.Credential, error)
}

// Registry bundles all entity stores behind one construction point.
type Registry interface {
	Audits() AuditStore
	Bounties() BountyStore
	Submissions() SubmissionStore
	Commitments() CommitmentStore
	Credentials() CredentialStore
}
