package bounty

import "time"

// Bounty is an escrowed reward offered for fixing one identified issue.
// The reward amount is expressed as a fixed-point unsigned integer in the
// smallest token unit and is held in escrow for the entire time the bounty
// stays open. Resolved and Closed are terminal.
type Bounty struct {
	ID           int64        `db:"id"`
	AuditID      int64        `db:"audit_id"`
	IssueID      int64        `db:"issue_id"`
	Poster       string       `db:"poster"`
	RewardAmount uint64       `db:"reward_amount"`
	TokenRef     string       `db:"token_ref"`
	Deadline     time.Time    `db:"deadline"`
	Status       BountyStatus `db:"status"`
	Winner       *string      `db:"winner"`
	CreatedAt    time.Time    `db:"created_at"`
	ResolvedAt   *time.Time   `db:"resolved_at"`
}

func NewBounty(auditID, issueID int64, poster, tokenRef string, reward uint64, deadline time.Time) *Bounty {
	return &Bounty{
		AuditID:      auditID,
		IssueID:      issueID,
		Poster:       poster,
		TokenRef:     tokenRef,
		RewardAmount: reward,
		Deadline:     deadline,
		Status:       StatusOpen,
		CreatedAt:    time.Now().UTC(),
	}
}

// Terminal reports whether the bounty can no longer be mutated.
func (b *Bounty) Terminal() bool {
	return b.Status == StatusResolved || b.Status == StatusClosed
}

// Expired reports whether the deadline has passed at the given instant.
// Expiry is evaluated lazily at each call site; there is no background timer.
func (b *Bounty) Expired(now time.Time) bool {
	return now.After(b.Deadline)
}
