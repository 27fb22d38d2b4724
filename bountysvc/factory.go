package bountysvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
)

// Factory turns completed high-risk audits into bounties. It is invoked
// by the analysis consumer after every audit completion and decides
// whether the findings warrant opening bounties automatically.
type Factory struct {
	service *Service
	audits  repository.AuditStore
	logger  observability.Logger
	metrics observability.Metrics
}

func NewFactory(service *Service, audits repository.AuditStore, provider observability.Provider) *Factory {
	return &Factory{
		service: service,
		audits:  audits,
		logger:  provider.Logger("bountyfactory"),
		metrics: provider.Metrics("bountyfactory"),
	}
}

// MaybeCreateBounties opens one bounty per issue, capped by
// MaxBountiesPerAudit, when automatic creation is enabled, the score
// reaches the trigger threshold and the audit produced findings. The
// audit requester is the poster; the whole batch is escrowed atomically
// or not at all.
func (f *Factory) MaybeCreateBounties(ctx context.Context, auditID int64, score int, issues []*issue.Issue) error {
	cfg := f.service.cfg
	if !cfg.AutoBountyEnabled || score < cfg.HighRiskThreshold || len(issues) == 0 {
		f.logger.Debug(ctx, "bounty trigger not met", observability.Fields{
			"audit_id": auditID,
			"score":    score,
			"issues":   len(issues),
		})
		return nil
	}

	a, err := f.audits.GetAudit(ctx, auditID)
	if err != nil {
		f.metrics.RecordError("bounty_trigger", "lookup")
		return fmt.Errorf("failed to load audit %d: %w", auditID, err)
	}

	selected := issues
	if cfg.MaxBountiesPerAudit > 0 && len(selected) > cfg.MaxBountiesPerAudit {
		selected = selected[:cfg.MaxBountiesPerAudit]
	}

	deadline := time.Now().UTC().Add(cfg.DefaultDuration)
	batch := make([]*bounty.Bounty, 0, len(selected))
	for _, iss := range selected {
		b := bounty.NewBounty(auditID, iss.ID, a.Requester, cfg.TokenRef, cfg.DefaultRewardPerIssue, deadline)
		batch = append(batch, b)
	}

	created, err := f.service.CreateBatch(ctx, a.Requester, batch)
	if err != nil {
		if errors.Is(err, bounty.ErrInsufficientFunds) || errors.Is(err, bounty.ErrInsufficientAllowance) {
			// zero bounties exist in this case; the audit itself stands
			f.logger.Warn(ctx, "auto bounty batch not funded", observability.Fields{
				"audit_id": auditID,
				"poster":   a.Requester,
				"issues":   len(selected),
			})
			f.metrics.RecordError("bounty_trigger", "unfunded")
			return err
		}
		f.metrics.RecordError("bounty_trigger", "create")
		return err
	}

	f.metrics.RecordSuccess("bounty_trigger")
	f.logger.Info(ctx, "bounties auto created", observability.Fields{
		"audit_id": auditID,
		"score":    score,
		"count":    len(created),
	})

	return nil
}
