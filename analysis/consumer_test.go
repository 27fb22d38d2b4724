package analysis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/mocks"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
	queuememory "github.com/taufiqnair-gif/codebounty-ai-sub000/queue/adapters/memory"
)

type recordingCompleter struct {
	auditID   int64
	score     int
	reportRef string
	issues    []*issue.Issue
	calls     int
}

func (r *recordingCompleter) Complete(_ context.Context, auditID int64, score int, reportRef string, issues []*issue.Issue) error {
	r.auditID = auditID
	r.score = score
	r.reportRef = reportRef
	r.issues = issues
	r.calls++
	return nil
}

type recordingTrigger struct {
	auditID int64
	score   int
	calls   int
}

func (r *recordingTrigger) MaybeCreateBounties(_ context.Context, auditID int64, score int, _ []*issue.Issue) error {
	r.auditID = auditID
	r.score = score
	r.calls++
	return nil
}

func TestProcessDrivesAuditThroughPipeline(t *testing.T) {
	ctx := context.Background()
	contents := newTestContentStore()

	sourceRef, err := contents.Put(ctx, []byte("contract C {}\n"), "text/plain")
	require.NoError(t, err)

	agg := NewAggregator(DefaultAnalyzers(), contents, 0, mocks.NopProvider{})
	completer := &recordingCompleter{}
	trigger := &recordingTrigger{}

	q := queuememory.New(1)
	defer q.Close()

	consumer := NewConsumer(q, agg, completer, trigger, mocks.NopProvider{})

	event, err := queue.NewEvent(queue.EventAuditRequested, AuditRequestedPayload{
		AuditID:   42,
		Requester: "alice",
		SourceRef: sourceRef,
	})
	require.NoError(t, err)

	require.NoError(t, consumer.Process(ctx, event))

	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, int64(42), completer.auditID)
	assert.NotEmpty(t, completer.reportRef)

	assert.Equal(t, 1, trigger.calls)
	assert.Equal(t, int64(42), trigger.auditID)
	assert.Equal(t, completer.score, trigger.score)
}

func TestProcessRejectsUnknownEventType(t *testing.T) {
	consumer := NewConsumer(nil, nil, nil, nil, mocks.NopProvider{})

	event, err := queue.NewEvent("bounty.opened", nil)
	require.NoError(t, err)

	assert.Error(t, consumer.Process(context.Background(), event))
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	consumer := NewConsumer(nil, nil, nil, nil, mocks.NopProvider{})

	event := queue.Event{
		ID:      "e1",
		Type:    queue.EventAuditRequested,
		Payload: json.RawMessage(`{"audit_id": "not-a-number"}`),
	}

	assert.Error(t, consumer.Process(context.Background(), event))
}

func TestProcessSkipsCompletionWhenAnalysisFails(t *testing.T) {
	ctx := context.Background()
	contents := newTestContentStore()

	analyzers := []Analyzer{
		&fixedAnalyzer{stage: StageStatic, err: ErrAnalysisFailed},
		&fixedAnalyzer{stage: StageSemantic, score: 100},
		&fixedAnalyzer{stage: StageSimulation, score: 100},
	}
	agg := NewAggregator(analyzers, contents, 0, mocks.NopProvider{})
	completer := &recordingCompleter{}

	consumer := NewConsumer(nil, agg, completer, nil, mocks.NopProvider{})

	event, err := queue.NewEvent(queue.EventAuditRequested, AuditRequestedPayload{AuditID: 1, SourceRef: "r"})
	require.NoError(t, err)

	assert.ErrorIs(t, consumer.Process(ctx, event), ErrAnalysisFailed)
	assert.Equal(t, 0, completer.calls)
}
