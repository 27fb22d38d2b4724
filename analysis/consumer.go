package analysis

import (
	"context"
	"fmt"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
)

// Completer finalizes an audit once its analysis run has produced a
// score and a report.
type Completer interface {
	Complete(ctx context.Context, auditID int64, score int, reportRef string, issues []*issue.Issue) error
}

// BountyTrigger is notified after each completed audit and may open
// bounties for the findings.
type BountyTrigger interface {
	MaybeCreateBounties(ctx context.Context, auditID int64, score int, issues []*issue.Issue) error
}

// AuditRequestedPayload is the body of an audit.requested event.
type AuditRequestedPayload struct {
	AuditID   int64  `json:"audit_id"`
	Requester string `json:"requester"`
	SourceRef string `json:"source_ref"`
}

// Consumer drains audit.requested events and drives each through the
// aggregator, the ledger completion and the bounty trigger.
type Consumer struct {
	queue      queue.Queue
	aggregator *Aggregator
	completer  Completer
	trigger    BountyTrigger
	logger     observability.Logger
	metrics    observability.Metrics
}

func NewConsumer(q queue.Queue, aggregator *Aggregator, completer Completer, trigger BountyTrigger, provider observability.Provider) *Consumer {
	return &Consumer{
		queue:      q,
		aggregator: aggregator,
		completer:  completer,
		trigger:    trigger,
		logger:     provider.Logger("consumer"),
		metrics:    provider.Metrics("consumer"),
	}
}

// Run consumes events until the context is cancelled. Event failures are
// logged and skipped; a failed analysis must not wedge the pipeline.
func (c *Consumer) Run(ctx context.Context) error {
	events, err := c.queue.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start event consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Process(ctx, event); err != nil {
				c.logger.Error(ctx, "event processing failed", err, observability.Fields{
					"event_id":   event.ID,
					"event_type": event.Type,
				})
			}
		}
	}
}

// Process handles a single event.
func (c *Consumer) Process(ctx context.Context, event queue.Event) error {
	if event.Type != queue.EventAuditRequested {
		c.metrics.RecordError("event_process", "unknown_type")
		return fmt.Errorf("unexpected event type %q", event.Type)
	}

	var payload AuditRequestedPayload
	if err := event.Unmarshal(&payload); err != nil {
		c.metrics.RecordError("event_process", "malformed_payload")
		return fmt.Errorf("failed to decode event payload: %w", err)
	}

	ctx = context.WithValue(ctx, "audit_id", payload.AuditID)

	result, err := c.aggregator.Run(ctx, payload.AuditID, payload.SourceRef)
	if err != nil {
		c.metrics.RecordError("event_process", "analysis")
		return err
	}

	if err := c.completer.Complete(ctx, result.AuditID, result.FinalScore, result.ReportRef, result.Issues); err != nil {
		c.metrics.RecordError("event_process", "complete")
		return fmt.Errorf("failed to complete audit %d: %w", result.AuditID, err)
	}

	if c.trigger != nil {
		if err := c.trigger.MaybeCreateBounties(ctx, result.AuditID, result.FinalScore, result.Issues); err != nil {
			// completion already happened; bounty creation failures are
			// surfaced but do not roll the audit back
			c.logger.Error(ctx, "bounty trigger failed", err, observability.Fields{
				"audit_id": result.AuditID,
			})
			c.metrics.RecordError("event_process", "bounty_trigger")
		}
	}

	c.metrics.RecordSuccess("event_process")
	return nil
}
