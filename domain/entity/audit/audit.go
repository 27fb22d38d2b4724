package audit

import "time"

// Audit is one end-to-end risk-assessment run over a code artifact.
// Audits are append-only: once created they are never deleted, and the
// only mutation permitted is the single Requested -> Completed transition.
type Audit struct {
	ID          int64       `db:"id"`
	Requester   string      `db:"requester"`
	SourceRef   string      `db:"source_ref"`
	Score       int         `db:"score"`
	ReportRef   string      `db:"report_ref"`
	Status      AuditStatus `db:"status"`
	IssueIDs    []int64     `db:"-"`
	CreatedAt   time.Time   `db:"created_at"`
	CompletedAt *time.Time  `db:"completed_at"`
}

func NewAudit(requester, sourceRef string) *Audit {
	return &Audit{
		Requester: requester,
		SourceRef: sourceRef,
		Status:    StatusRequested,
		CreatedAt: time.Now().UTC(),
	}
}

// Completed reports whether the audit has reached its terminal state.
func (a *Audit) Completed() bool {
	return a.Status == StatusCompleted
}
