package commitment

import "time"

type State string

const (
	StateCommitted State = "committed"
	StateRevealed  State = "revealed"
	StateExpired   State = "expired"
)

// Key identifies a commitment: one hunter may hold one live commitment
// per bounty at a time.
type Key struct {
	Hunter   string
	BountyID int64
}

// Commitment binds a hunter to a hidden solution hash before the reveal
// window closes. It is created on commit, mutated exactly once on a
// successful reveal, and never mutated again. An expired commitment is
// only observed as expired lazily, the next time it is read or acted on.
type Commitment struct {
	Hunter        string     `db:"hunter"`
	BountyID      int64      `db:"bounty_id"`
	CommitHash    string     `db:"commit_hash"`
	CommittedAt   time.Time  `db:"committed_at"`
	Revealed      bool       `db:"revealed"`
	RevealedValue *string    `db:"revealed_value"`
	RevealedAt    *time.Time `db:"revealed_at"`
}

func NewCommitment(hunter string, bountyID int64, commitHash string, now time.Time) *Commitment {
	return &Commitment{
		Hunter:      hunter,
		BountyID:    bountyID,
		CommitHash:  commitHash,
		CommittedAt: now,
	}
}

func (c *Commitment) Key() Key {
	return Key{Hunter: c.Hunter, BountyID: c.BountyID}
}

// ExpiredAt reports whether the reveal window has closed at the given
// instant without a reveal.
func (c *Commitment) ExpiredAt(now time.Time, window time.Duration) bool {
	return !c.Revealed && now.After(c.CommittedAt.Add(window))
}

// StateAt derives the commitment state at the given instant.
func (c *Commitment) StateAt(now time.Time, window time.Duration) State {
	switch {
	case c.Revealed:
		return StateRevealed
	case c.ExpiredAt(now, window):
		return StateExpired
	default:
		return StateCommitted
	}
}
