package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
)

func TestAuditInsertAssignsSequentialIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := audit.NewAudit("alice", "contract-a.sol")
	second := audit.NewAudit("bob", "contract-b.sol")

	require.NoError(t, store.InsertAudit(ctx, first))
	require.NoError(t, store.InsertAudit(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestAuditGetReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := audit.NewAudit("alice", "contract.sol")
	require.NoError(t, store.InsertAudit(ctx, a))

	got, err := store.GetAudit(ctx, a.ID)
	require.NoError(t, err)

	got.Score = 99
	got.Status = audit.StatusCompleted

	again, err := store.GetAudit(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Score)
	assert.Equal(t, audit.StatusRequested, again.Status)
}

func TestAuditNotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.GetAudit(ctx, 42)
	assert.ErrorIs(t, err, audit.ErrNotFound)

	err = store.UpdateAudit(ctx, &audit.Audit{ID: 42})
	assert.ErrorIs(t, err, audit.ErrNotFound)
}

func TestIssuesListedInInsertionOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	issues := []*issue.Issue{
		{AuditID: 7, Type: "reentrancy", Severity: issue.SeverityHigh},
		{AuditID: 7, Type: "tx-origin", Severity: issue.SeverityMedium},
		{AuditID: 8, Type: "todo-marker", Severity: issue.SeverityLow},
	}
	require.NoError(t, store.InsertIssues(ctx, issues))
	assert.Equal(t, int64(1), issues[0].ID)
	assert.Equal(t, int64(3), issues[2].ID)

	got, err := store.ListIssues(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "reentrancy", got[0].Type)
	assert.Equal(t, "tx-origin", got[1].Type)
}

func TestBountyBatchAssignsIDs(t *testing.T) {
	store := New()
	ctx := context.Background()
	deadline := time.Now().UTC().Add(24 * time.Hour)

	batch := []*bounty.Bounty{
		bounty.NewBounty(1, 1, "alice", "usdc", 1000, deadline),
		bounty.NewBounty(1, 2, "alice", "usdc", 2000, deadline),
	}
	require.NoError(t, store.InsertBounties(ctx, batch))
	assert.Equal(t, int64(1), batch[0].ID)
	assert.Equal(t, int64(2), batch[1].ID)
}

func TestBountyListFiltersByStatus(t *testing.T) {
	store := New()
	ctx := context.Background()
	deadline := time.Now().UTC().Add(24 * time.Hour)

	open := bounty.NewBounty(1, 1, "alice", "usdc", 1000, deadline)
	closed := bounty.NewBounty(1, 2, "alice", "usdc", 1000, deadline)
	require.NoError(t, store.InsertBounties(ctx, []*bounty.Bounty{open, closed}))

	closed.Status = bounty.StatusClosed
	require.NoError(t, store.UpdateBounty(ctx, closed))

	all, err := store.ListBounties(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := bounty.StatusOpen
	onlyOpen, err := store.ListBounties(ctx, &status)
	require.NoError(t, err)
	require.Len(t, onlyOpen, 1)
	assert.Equal(t, open.ID, onlyOpen[0].ID)
}

func TestBountyWinnerPointerIsNotAliased(t *testing.T) {
	store := New()
	ctx := context.Background()

	b := bounty.NewBounty(1, 1, "alice", "usdc", 1000, time.Now().UTC().Add(time.Hour))
	require.NoError(t, store.InsertBounties(ctx, []*bounty.Bounty{b}))

	winner := "hunter"
	b.Winner = &winner
	b.Status = bounty.StatusResolved
	require.NoError(t, store.UpdateBounty(ctx, b))

	winner = "impostor"

	got, err := store.GetBounty(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Winner)
	assert.Equal(t, "hunter", *got.Winner)
}

func TestSubmissionLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	sub := submission.NewSubmission(3, "hunter", "patch-ref")
	require.NoError(t, store.InsertSubmission(ctx, sub))
	assert.Equal(t, int64(1), sub.ID)

	sub.Decision = submission.DecisionApproved
	require.NoError(t, store.UpdateSubmission(ctx, sub))

	got, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.DecisionApproved, got.Decision)

	_, err = store.GetSubmission(ctx, 99)
	assert.ErrorIs(t, err, submission.ErrNotFound)
}

func TestSubmissionsListedPerBounty(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertSubmission(ctx, submission.NewSubmission(1, "hunter-a", "ref-a")))
	require.NoError(t, store.InsertSubmission(ctx, submission.NewSubmission(2, "hunter-b", "ref-b")))
	require.NoError(t, store.InsertSubmission(ctx, submission.NewSubmission(1, "hunter-c", "ref-c")))

	got, err := store.ListSubmissions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hunter-a", got[0].Hunter)
	assert.Equal(t, "hunter-c", got[1].Hunter)
}

func TestPutCommitmentReplacesExisting(t *testing.T) {
	store := New()
	ctx := context.Background()
	now := time.Now().UTC()

	first := commitment.NewCommitment("hunter", 5, "hash-one", now)
	require.NoError(t, store.PutCommitment(ctx, first))

	second := commitment.NewCommitment("hunter", 5, "hash-two", now.Add(time.Minute))
	require.NoError(t, store.PutCommitment(ctx, second))

	got, err := store.GetCommitment(ctx, commitment.Key{Hunter: "hunter", BountyID: 5})
	require.NoError(t, err)
	assert.Equal(t, "hash-two", got.CommitHash)
}

func TestGetCommitmentMissingKey(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.GetCommitment(ctx, commitment.Key{Hunter: "nobody", BountyID: 1})
	assert.ErrorIs(t, err, commitment.ErrNoCommitment)
}

func TestCredentialsListedPerHunter(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertCredential(ctx, credential.NewCredential(1, 10, "hunter-a", 88, "evidence-a")))
	require.NoError(t, store.InsertCredential(ctx, credential.NewCredential(1, 11, "hunter-b", 70, "evidence-b")))
	require.NoError(t, store.InsertCredential(ctx, credential.NewCredential(2, 12, "hunter-a", 92, "evidence-c")))

	got, err := store.ListCredentials(ctx, "hunter-a")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "hunter-a", c.Hunter)
	}

	none, err := store.ListCredentials(ctx, "hunter-z")
	require.NoError(t, err)
	assert.Empty(t, none)
}
