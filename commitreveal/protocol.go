// Package commitreveal implements the commit-reveal protocol hunters use
// to prove they held a solution before disclosing it. A hunter commits the
// sha256 of value and nonce, then must reveal both within a fixed window.
// Expiry is evaluated lazily; no timer ever fires.
package commitreveal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/internal/keyedmutex"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
)

// Protocol runs commit-reveal over the commitment store. The reveal
// window is fixed at construction and applies to every commitment.
type Protocol struct {
	store   repository.CommitmentStore
	window  time.Duration
	locks   *keyedmutex.KeyedMutex
	now     func() time.Time
	logger  observability.Logger
	metrics observability.Metrics
}

func New(store repository.CommitmentStore, window time.Duration, provider observability.Provider) *Protocol {
	return &Protocol{
		store:   store,
		window:  window,
		locks:   keyedmutex.New(),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  provider.Logger("commitreveal"),
		metrics: provider.Metrics("commitreveal"),
	}
}

// CommitHash derives the hash a hunter commits for a value and nonce.
func CommitHash(value, nonce string) string {
	sum := sha256.Sum256([]byte(value + nonce))
	return hex.EncodeToString(sum[:])
}

// Commit records a hunter's commitment on a bounty. A live commitment
// for the same (hunter, bounty) pair blocks a second commit; an expired
// one is replaced.
func (p *Protocol) Commit(ctx context.Context, hunter string, bountyID int64, commitHash string) (*commitment.Commitment, error) {
	if commitHash == "" {
		return nil, fmt.Errorf("commit hash must not be empty")
	}

	key := commitment.Key{Hunter: hunter, BountyID: bountyID}
	unlock := p.locks.Lock(lockKey(key))
	defer unlock()

	now := p.now()

	existing, err := p.store.GetCommitment(ctx, key)
	if err == nil {
		if existing.StateAt(now, p.window) != commitment.StateExpired {
			p.metrics.RecordError("commit", "already_committed")
			return nil, commitment.ErrAlreadyCommitted
		}
		// expired without a reveal: the slot reopens
	}

	c := commitment.NewCommitment(hunter, bountyID, commitHash, now)
	if err := p.store.PutCommitment(ctx, c); err != nil {
		p.metrics.RecordError("commit", "store")
		return nil, fmt.Errorf("failed to store commitment: %w", err)
	}

	p.metrics.RecordSuccess("commit")
	p.logger.Info(ctx, "commitment recorded", observability.Fields{
		"hunter":    hunter,
		"bounty_id": bountyID,
	})

	return c, nil
}

// Reveal discloses the committed value and nonce. It succeeds only while
// the window is open and only if sha256(value+nonce) matches the commit
// hash; a reveal one instant past the window fails even with a matching
// hash.
func (p *Protocol) Reveal(ctx context.Context, hunter string, bountyID int64, value, nonce string) (*commitment.Commitment, error) {
	key := commitment.Key{Hunter: hunter, BountyID: bountyID}
	unlock := p.locks.Lock(lockKey(key))
	defer unlock()

	c, err := p.store.GetCommitment(ctx, key)
	if err != nil {
		p.metrics.RecordError("reveal", "no_commitment")
		return nil, err
	}

	now := p.now()
	if c.Revealed {
		p.metrics.RecordError("reveal", "already_revealed")
		return nil, commitment.ErrAlreadyRevealed
	}
	if c.ExpiredAt(now, p.window) {
		p.metrics.RecordError("reveal", "window_expired")
		return nil, commitment.ErrWindowExpired
	}
	if CommitHash(value, nonce) != c.CommitHash {
		p.metrics.RecordError("reveal", "hash_mismatch")
		return nil, commitment.ErrHashMismatch
	}

	c.Revealed = true
	c.RevealedValue = &value
	c.RevealedAt = &now
	if err := p.store.PutCommitment(ctx, c); err != nil {
		p.metrics.RecordError("reveal", "store")
		return nil, fmt.Errorf("failed to store reveal: %w", err)
	}

	p.metrics.RecordSuccess("reveal")
	p.logger.Info(ctx, "commitment revealed", observability.Fields{
		"hunter":    hunter,
		"bounty_id": bountyID,
	})

	return c, nil
}

// Status reports the current state of a commitment. Expiry is derived at
// call time from the committed instant and the protocol window.
func (p *Protocol) Status(ctx context.Context, hunter string, bountyID int64) (commitment.State, error) {
	c, err := p.store.GetCommitment(ctx, commitment.Key{Hunter: hunter, BountyID: bountyID})
	if err != nil {
		return "", err
	}
	return c.StateAt(p.now(), p.window), nil
}

func lockKey(key commitment.Key) string {
	return fmt.Sprintf("commitment:%s:%d", key.Hunter, key.BountyID)
}
