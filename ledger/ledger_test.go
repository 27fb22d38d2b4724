package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/mocks"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
	queuememory "github.com/taufiqnair-gif/codebounty-ai-sub000/queue/adapters/memory"
	repomemory "github.com/taufiqnair-gif/codebounty-ai-sub000/repository/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *repomemory.Store, *queuememory.Queue) {
	t.Helper()
	store := repomemory.New()
	q := queuememory.New(16)
	t.Cleanup(func() { q.Close() })
	return New(store.Audits(), q, mocks.NopProvider{}), store, q
}

func TestRequestPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	l, store, q := newTestLedger(t)

	a, err := l.Request(ctx, "alice", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, audit.StatusRequested, a.Status)
	assert.Nil(t, a.CompletedAt)

	stored, err := store.Audits().GetAudit(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Requester)

	events, err := q.Consume(ctx)
	require.NoError(t, err)
	event := <-events
	assert.Equal(t, queue.EventAuditRequested, event.Type)

	var payload map[string]interface{}
	require.NoError(t, event.Unmarshal(&payload))
	assert.Equal(t, float64(a.ID), payload["audit_id"])
	assert.Equal(t, "ref-1", payload["source_ref"])
}

func TestRequestRejectsEmptyFields(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	_, err := l.Request(ctx, "", "ref")
	assert.Error(t, err)

	_, err = l.Request(ctx, "alice", "")
	assert.Error(t, err)
}

func TestCompleteTransitionsAuditOnce(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	a, err := l.Request(ctx, "alice", "ref-1")
	require.NoError(t, err)

	issues := []*issue.Issue{
		{Type: "tx-origin-auth", Severity: issue.SeverityHigh, Line: 4},
		{Type: "floating-pragma", Severity: issue.SeverityLow, Line: 1},
	}
	require.NoError(t, l.Complete(ctx, a.ID, 69, "report-ref", issues))

	completed, err := l.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, audit.StatusCompleted, completed.Status)
	assert.Equal(t, 69, completed.Score)
	assert.Equal(t, "report-ref", completed.ReportRef)
	require.NotNil(t, completed.CompletedAt)
	assert.Len(t, completed.IssueIDs, 2)

	stored, err := l.Issues(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, a.ID, stored[0].AuditID)

	// second completion is rejected and leaves the record untouched
	err = l.Complete(ctx, a.ID, 10, "other-ref", nil)
	assert.ErrorIs(t, err, audit.ErrAlreadyCompleted)

	unchanged, err := l.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 69, unchanged.Score)
	assert.Equal(t, "report-ref", unchanged.ReportRef)
}

func TestCompleteValidatesInput(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	assert.ErrorIs(t, l.Complete(ctx, 1, -1, "r", nil), audit.ErrInvalidScore)
	assert.ErrorIs(t, l.Complete(ctx, 1, 101, "r", nil), audit.ErrInvalidScore)
	assert.ErrorIs(t, l.Complete(ctx, 99, 50, "r", nil), audit.ErrNotFound)
}

func TestCompleteIsExactlyOnceUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger(t)

	a, err := l.Request(ctx, "alice", "ref-1")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Complete(ctx, a.ID, 50+i, "ref", nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, audit.ErrAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestGetUnknownAudit(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.Get(context.Background(), 404)
	assert.ErrorIs(t, err, audit.ErrNotFound)

	_, err = l.Issues(context.Background(), 404)
	assert.ErrorIs(t, err, audit.ErrNotFound)
}
