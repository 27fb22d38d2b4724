package commitreveal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability/mocks"
	repomemory "github.com/taufiqnair-gif/codebounty-ai-sub000/repository/memory"
)

const testWindow = 10 * time.Minute

func newTestProtocol(t *testing.T) *Protocol {
	t.Helper()
	store := repomemory.New()
	return New(store.Commitments(), testWindow, mocks.NopProvider{})
}

// at pins the protocol clock to a fixed instant.
func at(p *Protocol, instant time.Time) {
	p.now = func() time.Time { return instant }
}

func TestCommitThenRevealRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	hash := CommitHash("my-solution", "nonce-1")
	c, err := p.Commit(ctx, "hunter1", 7, hash)
	require.NoError(t, err)
	assert.Equal(t, hash, c.CommitHash)
	assert.False(t, c.Revealed)

	state, err := p.Status(ctx, "hunter1", 7)
	require.NoError(t, err)
	assert.Equal(t, commitment.StateCommitted, state)

	revealed, err := p.Reveal(ctx, "hunter1", 7, "my-solution", "nonce-1")
	require.NoError(t, err)
	assert.True(t, revealed.Revealed)
	require.NotNil(t, revealed.RevealedValue)
	assert.Equal(t, "my-solution", *revealed.RevealedValue)

	state, err = p.Status(ctx, "hunter1", 7)
	require.NoError(t, err)
	assert.Equal(t, commitment.StateRevealed, state)
}

func TestCommitRejectsLiveCommitment(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("v", "n"))
	require.NoError(t, err)

	_, err = p.Commit(ctx, "hunter1", 7, CommitHash("v2", "n2"))
	assert.ErrorIs(t, err, commitment.ErrAlreadyCommitted)

	// a different bounty or hunter is an independent slot
	_, err = p.Commit(ctx, "hunter1", 8, CommitHash("v", "n"))
	assert.NoError(t, err)
	_, err = p.Commit(ctx, "hunter2", 7, CommitHash("v", "n"))
	assert.NoError(t, err)
}

func TestCommitReplacesExpiredCommitment(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at(p, start)
	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("old", "n"))
	require.NoError(t, err)

	at(p, start.Add(testWindow+time.Second))
	state, err := p.Status(ctx, "hunter1", 7)
	require.NoError(t, err)
	assert.Equal(t, commitment.StateExpired, state)

	fresh, err := p.Commit(ctx, "hunter1", 7, CommitHash("new", "n2"))
	require.NoError(t, err)
	assert.Equal(t, CommitHash("new", "n2"), fresh.CommitHash)

	// the fresh commitment gets its own window
	at(p, start.Add(testWindow+2*time.Second))
	_, err = p.Reveal(ctx, "hunter1", 7, "new", "n2")
	assert.NoError(t, err)
}

func TestRevealRequiresCommitment(t *testing.T) {
	p := newTestProtocol(t)

	_, err := p.Reveal(context.Background(), "hunter1", 7, "v", "n")
	assert.ErrorIs(t, err, commitment.ErrNoCommitment)

	_, err = p.Status(context.Background(), "hunter1", 7)
	assert.ErrorIs(t, err, commitment.ErrNoCommitment)
}

func TestRevealRejectsWrongValue(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("right", "n"))
	require.NoError(t, err)

	_, err = p.Reveal(ctx, "hunter1", 7, "wrong", "n")
	assert.ErrorIs(t, err, commitment.ErrHashMismatch)

	_, err = p.Reveal(ctx, "hunter1", 7, "right", "other-nonce")
	assert.ErrorIs(t, err, commitment.ErrHashMismatch)

	// the commitment survives failed reveals
	_, err = p.Reveal(ctx, "hunter1", 7, "right", "n")
	assert.NoError(t, err)
}

func TestRevealFailsPastWindowEvenWithMatchingHash(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at(p, start)
	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("v", "n"))
	require.NoError(t, err)

	// reveal at T+window is still inside the window
	at(p, start.Add(testWindow))
	state, err := p.Status(ctx, "hunter1", 7)
	require.NoError(t, err)
	assert.Equal(t, commitment.StateCommitted, state)

	// one second later it is not
	at(p, start.Add(testWindow+time.Second))
	_, err = p.Reveal(ctx, "hunter1", 7, "v", "n")
	assert.ErrorIs(t, err, commitment.ErrWindowExpired)
}

func TestRevealRejectsSecondReveal(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("v", "n"))
	require.NoError(t, err)

	_, err = p.Reveal(ctx, "hunter1", 7, "v", "n")
	require.NoError(t, err)

	_, err = p.Reveal(ctx, "hunter1", 7, "v", "n")
	assert.ErrorIs(t, err, commitment.ErrAlreadyRevealed)
}

func TestRevealedCommitmentNeverExpires(t *testing.T) {
	ctx := context.Background()
	p := newTestProtocol(t)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at(p, start)
	_, err := p.Commit(ctx, "hunter1", 7, CommitHash("v", "n"))
	require.NoError(t, err)
	_, err = p.Reveal(ctx, "hunter1", 7, "v", "n")
	require.NoError(t, err)

	at(p, start.Add(100*testWindow))
	state, err := p.Status(ctx, "hunter1", 7)
	require.NoError(t, err)
	assert.Equal(t, commitment.StateRevealed, state)
}

func TestCommitRejectsEmptyHash(t *testing.T) {
	p := newTestProtocol(t)

	_, err := p.Commit(context.Background(), "hunter1", 7, "")
	assert.Error(t, err)
}
