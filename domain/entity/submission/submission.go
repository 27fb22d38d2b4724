package submission

import "time"

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Submission is one hunter's proposed fix for a bounty. A hunter may hold
// at most one pending submission per bounty. Submissions reference their
// bounty but never own it.
type Submission struct {
	ID          int64     `db:"id"`
	BountyID    int64     `db:"bounty_id"`
	Hunter      string    `db:"hunter"`
	SolutionRef string    `db:"solution_ref"`
	Decision    Decision  `db:"decision"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func NewSubmission(bountyID int64, hunter, solutionRef string) *Submission {
	return &Submission{
		BountyID:    bountyID,
		Hunter:      hunter,
		SolutionRef: solutionRef,
		Decision:    DecisionPending,
		SubmittedAt: time.Now().UTC(),
	}
}

// Pending reports whether the submission is still awaiting a decision.
func (s *Submission) Pending() bool {
	return s.Decision == DecisionPending
}
