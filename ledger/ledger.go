// Package ledger owns the audit lifecycle: it accepts audit requests,
// publishes them for asynchronous analysis and applies the single
// Requested -> Completed transition exactly once.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/internal/keyedmutex"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
)

// Ledger coordinates audit records with the event queue.
type Ledger struct {
	audits  repository.AuditStore
	queue   queue.Queue
	locks   *keyedmutex.KeyedMutex
	logger  observability.Logger
	metrics observability.Metrics
}

func New(audits repository.AuditStore, q queue.Queue, provider observability.Provider) *Ledger {
	return &Ledger{
		audits:  audits,
		queue:   q,
		locks:   keyedmutex.New(),
		logger:  provider.Logger("ledger"),
		metrics: provider.Metrics("ledger"),
	}
}

// Request records a new audit for a source artifact and publishes the
// audit.requested event the aggregator consumes. The audit is persisted
// before the event goes out, so a consumer can always resolve the id.
func (l *Ledger) Request(ctx context.Context, requester, sourceRef string) (*audit.Audit, error) {
	start := time.Now()
	defer func() {
		l.metrics.RecordDuration("audit_request", time.Since(start).Seconds())
	}()

	if requester == "" {
		l.metrics.RecordError("audit_request", "validation")
		return nil, fmt.Errorf("requester must not be empty")
	}
	if sourceRef == "" {
		l.metrics.RecordError("audit_request", "validation")
		return nil, fmt.Errorf("source ref must not be empty")
	}

	a := audit.NewAudit(requester, sourceRef)
	if err := l.audits.InsertAudit(ctx, a); err != nil {
		l.metrics.RecordError("audit_request", "insert")
		return nil, fmt.Errorf("failed to store audit: %w", err)
	}

	event, err := queue.NewEvent(queue.EventAuditRequested, map[string]interface{}{
		"audit_id":   a.ID,
		"requester":  a.Requester,
		"source_ref": a.SourceRef,
	})
	if err != nil {
		l.metrics.RecordError("audit_request", "event")
		return nil, fmt.Errorf("failed to build event: %w", err)
	}
	if err := l.queue.Publish(ctx, event); err != nil {
		l.metrics.RecordError("audit_request", "publish")
		return nil, fmt.Errorf("failed to publish audit request: %w", err)
	}

	l.metrics.RecordSuccess("audit_request")
	l.logger.Info(ctx, "audit requested", observability.Fields{
		"audit_id":   a.ID,
		"requester":  a.Requester,
		"source_ref": a.SourceRef,
	})

	return a, nil
}

// Complete applies the terminal transition for an audit: it stores the
// issues, pins the score and report ref and stamps the completion time.
// A second completion attempt returns audit.ErrAlreadyCompleted and
// changes nothing.
func (l *Ledger) Complete(ctx context.Context, auditID int64, score int, reportRef string, issues []*issue.Issue) error {
	start := time.Now()
	defer func() {
		l.metrics.RecordDuration("audit_complete", time.Since(start).Seconds())
	}()

	if score < 0 || score > 100 {
		l.metrics.RecordError("audit_complete", "validation")
		return audit.ErrInvalidScore
	}

	unlock := l.locks.Lock(auditKey(auditID))
	defer unlock()

	a, err := l.audits.GetAudit(ctx, auditID)
	if err != nil {
		l.metrics.RecordError("audit_complete", "lookup")
		return err
	}
	if a.Completed() {
		l.metrics.RecordError("audit_complete", "already_completed")
		return audit.ErrAlreadyCompleted
	}

	for _, iss := range issues {
		iss.AuditID = auditID
	}
	if err := l.audits.InsertIssues(ctx, issues); err != nil {
		l.metrics.RecordError("audit_complete", "insert_issues")
		return fmt.Errorf("failed to store issues: %w", err)
	}

	now := time.Now().UTC()
	a.Score = score
	a.ReportRef = reportRef
	a.Status = audit.StatusCompleted
	a.CompletedAt = &now
	a.IssueIDs = a.IssueIDs[:0]
	for _, iss := range issues {
		a.IssueIDs = append(a.IssueIDs, iss.ID)
	}

	if err := l.audits.UpdateAudit(ctx, a); err != nil {
		l.metrics.RecordError("audit_complete", "update")
		return fmt.Errorf("failed to update audit: %w", err)
	}

	l.metrics.RecordSuccess("audit_complete")
	l.logger.Info(ctx, "audit completed", observability.Fields{
		"audit_id":   auditID,
		"score":      score,
		"report_ref": reportRef,
		"issues":     len(issues),
	})

	return nil
}

// Get returns an audit by id.
func (l *Ledger) Get(ctx context.Context, auditID int64) (*audit.Audit, error) {
	return l.audits.GetAudit(ctx, auditID)
}

// Issues returns the issues recorded for an audit.
func (l *Ledger) Issues(ctx context.Context, auditID int64) ([]*issue.Issue, error) {
	if _, err := l.audits.GetAudit(ctx, auditID); err != nil {
		return nil, err
	}
	return l.audits.ListIssues(ctx, auditID)
}

func auditKey(id int64) string {
	return fmt.Sprintf("audit:%d", id)
}
