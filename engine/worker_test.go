package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/analysis"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/bountysvc"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/commitreveal"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/ledger"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/mocks"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
	queuememory "github.com/taufiqnair-gif/codebounty-ai-sub000/queue/adapters/memory"
	repomemory "github.com/taufiqnair-gif/codebounty-ai-sub000/repository/memory"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage"
	storagememory "github.com/taufiqnair-gif/codebounty-ai-sub000/storage/adapters/memory"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/token"
)

// testEngine wires the full engine on in-memory adapters.
type testEngine struct {
	worker   *Worker
	store    *repomemory.Store
	bank     *token.MemoryBank
	queue    *queuememory.Queue
	contents *storage.ContentStore
	consumer *analysis.Consumer
	bounties *bountysvc.Service
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	provider := mocks.NopProvider{}
	store := repomemory.New()
	bank := token.NewMemoryBank()
	q := queuememory.New(16)
	t.Cleanup(func() { q.Close() })

	contents := storage.NewContentStore(storagememory.New(), "content",
		provider.Logger("storage"), provider.Metrics("storage"))

	bountyCfg := &config.BountyConfig{
		AutoBountyEnabled:     true,
		HighRiskThreshold:     50,
		MaxBountiesPerAudit:   10,
		DefaultRewardPerIssue: 1000,
		DefaultDuration:       24 * time.Hour,
		PlatformFeeBps:        100,
		PlatformAccount:       "platform",
		TokenRef:              "usdx",
	}

	led := ledger.New(store.Audits(), q, provider)
	bounties := bountysvc.NewService(store, bank, bountyCfg, provider)
	factory := bountysvc.NewFactory(bounties, store.Audits(), provider)
	commits := commitreveal.New(store.Commitments(), 10*time.Minute, provider)

	aggregator := analysis.NewAggregator(analysis.DefaultAnalyzers(), contents, 0, provider)
	consumer := analysis.NewConsumer(q, aggregator, led, factory, provider)

	return &testEngine{
		worker:   NewWorker(led, bounties, commits, provider),
		store:    store,
		bank:     bank,
		queue:    q,
		contents: contents,
		consumer: consumer,
		bounties: bounties,
	}
}

func mustProcess(t *testing.T, e *testEngine, opType string, payload interface{}) handler.Response {
	t.Helper()
	req, err := handler.NewRequest(opType, payload)
	require.NoError(t, err)
	resp, err := e.worker.Process(context.Background(), req)
	require.NoError(t, err)
	return resp
}

// drainOne pulls the next queued event and runs it through the consumer.
func drainOne(t *testing.T, e *testEngine) {
	t.Helper()
	events, err := e.queue.Consume(context.Background())
	require.NoError(t, err)
	select {
	case event := <-events:
		require.NoError(t, e.consumer.Process(context.Background(), event))
	case <-time.After(time.Second):
		t.Fatal("no event queued")
	}
}

func TestAuditRequestThroughCompletion(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	source := []byte("contract V { function f() public { require(tx.origin == owner); } }\n")
	sourceRef, err := e.contents.Put(ctx, source, "text/plain")
	require.NoError(t, err)

	// the requester holds funds so auto bounties can be escrowed
	e.bank.Mint("alice", 100000)
	e.bank.Approve("alice", "engine", 100000)

	resp := mustProcess(t, e, OpAuditRequest, map[string]string{
		"requester":  "alice",
		"source_ref": sourceRef,
	})
	require.True(t, resp.Success)

	var a audit.Audit
	require.NoError(t, json.Unmarshal(resp.Data, &a))
	assert.Equal(t, audit.StatusRequested, a.Status)

	drainOne(t, e)

	resp = mustProcess(t, e, OpAuditGet, map[string]int64{"audit_id": a.ID})
	require.True(t, resp.Success)

	var completed audit.Audit
	require.NoError(t, json.Unmarshal(resp.Data, &completed))
	assert.Equal(t, audit.StatusCompleted, completed.Status)
	assert.NotEmpty(t, completed.ReportRef)

	// the tx.origin finding triggered an automatic bounty
	resp = mustProcess(t, e, OpBountyList, map[string]string{})
	require.True(t, resp.Success)
	var bounties []*bounty.Bounty
	require.NoError(t, json.Unmarshal(resp.Data, &bounties))
	assert.NotEmpty(t, bounties)
	assert.Equal(t, "alice", bounties[0].Poster)
}

func TestBountyLifecycleOperations(t *testing.T) {
	e := newTestEngine(t)

	e.bank.Mint("alice", 1000)
	e.bank.Approve("alice", "engine", 1000)

	resp := mustProcess(t, e, OpBountyCreate, map[string]interface{}{
		"poster":   "alice",
		"audit_id": 1,
		"issue_id": 1,
		"reward":   1000,
		"deadline": time.Now().UTC().Add(time.Hour),
	})
	require.True(t, resp.Success)
	var b bounty.Bounty
	require.NoError(t, json.Unmarshal(resp.Data, &b))

	resp = mustProcess(t, e, OpBountySubmit, map[string]interface{}{
		"bounty_id":    b.ID,
		"hunter":       "hunter1",
		"solution_ref": "sol-ref",
	})
	require.True(t, resp.Success)

	resp = mustProcess(t, e, OpBountyResolve, map[string]interface{}{
		"caller":       "alice",
		"bounty_id":    b.ID,
		"winner":       "hunter1",
		"evidence_ref": "ev-ref",
		"fee_bps":      100,
	})
	require.True(t, resp.Success)
	var cred credential.Credential
	require.NoError(t, json.Unmarshal(resp.Data, &cred))
	assert.Equal(t, "hunter1", cred.Hunter)

	balance, err := e.bank.BalanceOf(context.Background(), "hunter1")
	require.NoError(t, err)
	assert.Equal(t, uint64(990), balance)

	resp = mustProcess(t, e, OpBountySubmissions, map[string]int64{"bounty_id": b.ID})
	require.True(t, resp.Success)
	var subs []*submission.Submission
	require.NoError(t, json.Unmarshal(resp.Data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, submission.DecisionApproved, subs[0].Decision)

	resp = mustProcess(t, e, OpCredentialList, map[string]string{"hunter": "hunter1"})
	require.True(t, resp.Success)
	var creds []*credential.Credential
	require.NoError(t, json.Unmarshal(resp.Data, &creds))
	assert.Len(t, creds, 1)
}

func TestBountyDomainErrorsSurfaceAsCodes(t *testing.T) {
	e := newTestEngine(t)

	resp := mustProcess(t, e, OpBountyGet, map[string]int64{"bounty_id": 404})
	assert.False(t, resp.Success)
	assert.Equal(t, handler.CodeNotFound, resp.Error.Code)

	resp = mustProcess(t, e, OpBountyCreate, map[string]interface{}{
		"poster":   "pauper",
		"audit_id": 1,
		"issue_id": 1,
		"reward":   1000,
		"deadline": time.Now().Add(time.Hour),
	})
	assert.False(t, resp.Success)
	assert.Equal(t, handler.CodeInsufficientAllowance, resp.Error.Code)
}

func TestCommitRevealOperations(t *testing.T) {
	e := newTestEngine(t)

	hash := commitreveal.CommitHash("solution", "nonce")
	resp := mustProcess(t, e, OpCommit, map[string]interface{}{
		"hunter":      "hunter1",
		"bounty_id":   7,
		"commit_hash": hash,
	})
	require.True(t, resp.Success)

	resp = mustProcess(t, e, OpCommitStatus, map[string]interface{}{
		"hunter":    "hunter1",
		"bounty_id": 7,
	})
	require.True(t, resp.Success)
	var status map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, string(commitment.StateCommitted), status["state"])

	resp = mustProcess(t, e, OpReveal, map[string]interface{}{
		"hunter":    "hunter1",
		"bounty_id": 7,
		"value":     "wrong",
		"nonce":     "nonce",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, handler.CodeHashMismatch, resp.Error.Code)

	resp = mustProcess(t, e, OpReveal, map[string]interface{}{
		"hunter":    "hunter1",
		"bounty_id": 7,
		"value":     "solution",
		"nonce":     "nonce",
	})
	require.True(t, resp.Success)
}

func TestUnknownOperation(t *testing.T) {
	e := newTestEngine(t)

	resp := mustProcess(t, e, "bounty.destroy", map[string]string{})
	assert.False(t, resp.Success)
	assert.Equal(t, handler.CodeValidationError, resp.Error.Code)
}

func TestBountyListRejectsUnknownStatus(t *testing.T) {
	e := newTestEngine(t)

	resp := mustProcess(t, e, OpBountyList, map[string]string{"status": "limbo"})
	assert.False(t, resp.Success)
	assert.Equal(t, handler.CodeValidationError, resp.Error.Code)
}

func TestWorkerHealth(t *testing.T) {
	e := newTestEngine(t)
	assert.NoError(t, e.worker.Health(context.Background()))
}

func TestQueueTypesAlign(t *testing.T) {
	// the ledger publishes the event type the consumer expects
	assert.Equal(t, "audit.requested", queue.EventAuditRequested)
}
