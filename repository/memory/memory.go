// Package memory provides the in-process implementation of the repository
// ports. It backs the engine in tests and single-node deployments where the
// serialized store lives in the same process. All maps are mutex-guarded and
// every read or write works on a copy, so callers can never reach stored
// records through aliased pointers.
package memory

import (
	"context"
	"sync"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
)

// Store implements repository.Registry with in-memory maps.
type Store struct {
	mu sync.RWMutex

	audits      map[int64]*audit.Audit
	issues      map[int64]*issue.Issue
	bounties    map[int64]*bounty.Bounty
	submissions map[int64]*submission.Submission
	commitments map[commitment.Key]*commitment.Commitment
	credentials map[string]*credential.Credential

	nextAuditID      int64
	nextIssueID      int64
	nextBountyID     int64
	nextSubmissionID int64
}

var _ repository.Registry = (*Store)(nil)

func New() *Store {
	return &Store{
		audits:      make(map[int64]*audit.Audit),
		issues:      make(map[int64]*issue.Issue),
		bounties:    make(map[int64]*bounty.Bounty),
		submissions: make(map[int64]*submission.Submission),
		commitments: make(map[commitment.Key]*commitment.Commitment),
		credentials: make(map[string]*credential.Credential),
	}
}

func (s *Store) Audits() repository.AuditStore           { return s }
func (s *Store) Bounties() repository.BountyStore        { return s }
func (s *Store) Submissions() repository.SubmissionStore { return s }
func (s *Store) Commitments() repository.CommitmentStore { return s }
func (s *Store) Credentials() repository.CredentialStore { return s }

// --- audits ---

func (s *Store) InsertAudit(_ context.Context, a *audit.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAuditID++
	a.ID = s.nextAuditID
	s.audits[a.ID] = copyAudit(a)
	return nil
}

func (s *Store) GetAudit(_ context.Context, id int64) (*audit.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.audits[id]
	if !ok {
		return nil, audit.ErrNotFound
	}
	return copyAudit(a), nil
}

func (s *Store) UpdateAudit(_ context.Context, a *audit.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.audits[a.ID]; !ok {
		return audit.ErrNotFound
	}
	s.audits[a.ID] = copyAudit(a)
	return nil
}

func (s *Store) InsertIssues(_ context.Context, issues []*issue.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, is := range issues {
		s.nextIssueID++
		is.ID = s.nextIssueID
		cp := *is
		s.issues[is.ID] = &cp
	}
	return nil
}

func (s *Store) ListIssues(_ context.Context, auditID int64) ([]*issue.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*issue.Issue
	// ids are monotonic, so an ordered scan preserves insertion order
	for id := int64(1); id <= s.nextIssueID; id++ {
		is, ok := s.issues[id]
		if !ok || is.AuditID != auditID {
			continue
		}
		cp := *is
		out = append(out, &cp)
	}
	return out, nil
}

// --- bounties ---

func (s *Store) InsertBounties(_ context.Context, bounties []*bounty.Bounty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range bounties {
		s.nextBountyID++
		b.ID = s.nextBountyID
		s.bounties[b.ID] = copyBounty(b)
	}
	return nil
}

func (s *Store) GetBounty(_ context.Context, id int64) (*bounty.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bounties[id]
	if !ok {
		return nil, bounty.ErrNotFound
	}
	return copyBounty(b), nil
}

func (s *Store) UpdateBounty(_ context.Context, b *bounty.Bounty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bounties[b.ID]; !ok {
		return bounty.ErrNotFound
	}
	s.bounties[b.ID] = copyBounty(b)
	return nil
}

func (s *Store) ListBounties(_ context.Context, status *bounty.BountyStatus) ([]*bounty.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*bounty.Bounty
	for id := int64(1); id <= s.nextBountyID; id++ {
		b, ok := s.bounties[id]
		if !ok {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, copyBounty(b))
	}
	return out, nil
}

// --- submissions ---

func (s *Store) InsertSubmission(_ context.Context, sub *submission.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubmissionID++
	sub.ID = s.nextSubmissionID
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

func (s *Store) GetSubmission(_ context.Context, id int64) (*submission.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, submission.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *Store) UpdateSubmission(_ context.Context, sub *submission.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[sub.ID]; !ok {
		return submission.ErrNotFound
	}
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

func (s *Store) ListSubmissions(_ context.Context, bountyID int64) ([]*submission.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*submission.Submission
	for id := int64(1); id <= s.nextSubmissionID; id++ {
		sub, ok := s.submissions[id]
		if !ok || sub.BountyID != bountyID {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

// --- commitments ---

func (s *Store) PutCommitment(_ context.Context, c *commitment.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commitments[c.Key()] = copyCommitment(c)
	return nil
}

func (s *Store) GetCommitment(_ context.Context, key commitment.Key) (*commitment.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.commitments[key]
	if !ok {
		return nil, commitment.ErrNoCommitment
	}
	return copyCommitment(c), nil
}

// --- credentials ---

func (s *Store) InsertCredential(_ context.Context, c *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.credentials[c.ID] = &cp
	return nil
}

func (s *Store) ListCredentials(_ context.Context, hunter string) ([]*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*credential.Credential
	for _, c := range s.credentials {
		if c.Hunter != hunter {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// --- copy helpers ---

func copyAudit(a *audit.Audit) *audit.Audit {
	cp := *a
	if a.IssueIDs != nil {
		cp.IssueIDs = append([]int64(nil), a.IssueIDs...)
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func copyBounty(b *bounty.Bounty) *bounty.Bounty {
	cp := *b
	if b.Winner != nil {
		w := *b.Winner
		cp.Winner = &w
	}
	if b.ResolvedAt != nil {
		t := *b.ResolvedAt
		cp.ResolvedAt = &t
	}
	return &cp
}

func copyCommitment(c *commitment.Commitment) *commitment.Commitment {
	cp := *c
	if c.RevealedValue != nil {
		v := *c.RevealedValue
		cp.RevealedValue = &v
	}
	if c.RevealedAt != nil {
		t := *c.RevealedAt
		cp.RevealedAt = &t
	}
	return &cp
}
