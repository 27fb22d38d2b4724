// Package bountysvc owns the bounty lifecycle: escrowed creation, hunter
// submissions, fee-splitting resolution, refunds and credential issuance.
//
// All value movement goes through the token.Bank capability. The reward
// of an open bounty is held in a per-bounty escrow account and leaves it
// exactly once, either split between winner and platform on resolve or
// refunded whole to the poster on close.
package bountysvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/internal/keyedmutex"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/repository"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/token"
)

// engineSpender is the spender identity the engine uses when moving poster
// funds into escrow. Posters grant allowance to this identity.
const engineSpender = "engine"

// feeBasisPointsDenominator is the fee denominator: fees are expressed in
// basis points out of 10000.
const feeBasisPointsDenominator = 10000

// Service implements the bounty lifecycle over the persistence registry
// and the token bank.
type Service struct {
	registry repository.Registry
	bank     token.Bank
	cfg      *config.BountyConfig
	locks    *keyedmutex.KeyedMutex
	now      func() time.Time
	logger   observability.Logger
	metrics  observability.Metrics
}

func NewService(registry repository.Registry, bank token.Bank, cfg *config.BountyConfig, provider observability.Provider) *Service {
	return &Service{
		registry: registry,
		bank:     bank,
		cfg:      cfg,
		locks:    keyedmutex.New(),
		now:      func() time.Time { return time.Now().UTC() },
		logger:   provider.Logger("bountysvc"),
		metrics:  provider.Metrics("bountysvc"),
	}
}

// EscrowAccount returns the escrow account name holding the reward of one
// bounty.
func EscrowAccount(bountyID int64) string {
	return fmt.Sprintf("escrow:bounty:%d", bountyID)
}

// CreateBounty opens a single escrowed bounty. The poster's balance is
// debited by the reward amount into the bounty's escrow account; the
// poster must have granted the engine sufficient allowance first.
func (s *Service) CreateBounty(ctx context.Context, poster string, auditID, issueID int64, reward uint64, deadline time.Time) (*bounty.Bounty, error) {
	bounties, err := s.createBatch(ctx, poster, []*bounty.Bounty{
		bounty.NewBounty(auditID, issueID, poster, s.cfg.TokenRef, reward, deadline),
	})
	if err != nil {
		return nil, err
	}
	return bounties[0], nil
}

// CreateBatch opens several bounties for one poster atomically. Either the
// poster's balance covers the sum of all rewards and every bounty is
// created, or nothing is.
func (s *Service) CreateBatch(ctx context.Context, poster string, bounties []*bounty.Bounty) ([]*bounty.Bounty, error) {
	return s.createBatch(ctx, poster, bounties)
}

func (s *Service) createBatch(ctx context.Context, poster string, bounties []*bounty.Bounty) ([]*bounty.Bounty, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("bounty_create", time.Since(start).Seconds())
	}()

	if len(bounties) == 0 {
		return nil, fmt.Errorf("empty bounty batch")
	}

	var total uint64
	for _, b := range bounties {
		if b.Poster != poster {
			return nil, fmt.Errorf("batch contains bounty for different poster %q", b.Poster)
		}
		if b.RewardAmount == 0 {
			return nil, fmt.Errorf("bounty reward must be positive")
		}
		total += b.RewardAmount
	}

	// the poster account lock covers the whole batch so a concurrent
	// batch cannot interleave between the allowance check and the debit
	unlock := s.locks.Lock(posterKey(poster))
	defer unlock()

	allowance, err := s.bank.Allowance(ctx, poster, engineSpender)
	if err != nil {
		s.metrics.RecordError("bounty_create", "allowance")
		return nil, fmt.Errorf("failed to read allowance: %w", err)
	}
	if allowance < total {
		s.metrics.RecordError("bounty_create", "insufficient_allowance")
		return nil, bounty.ErrInsufficientAllowance
	}

	if err := s.bank.Debit(ctx, poster, total); err != nil {
		if errors.Is(err, token.ErrInsufficientBalance) {
			s.metrics.RecordError("bounty_create", "insufficient_funds")
			return nil, bounty.ErrInsufficientFunds
		}
		s.metrics.RecordError("bounty_create", "debit")
		return nil, fmt.Errorf("failed to debit poster: %w", err)
	}

	if err := s.registry.Bounties().InsertBounties(ctx, bounties); err != nil {
		// compensate the debit so funds are never stranded
		if creditErr := s.bank.Credit(ctx, poster, total); creditErr != nil {
			s.logger.Error(ctx, "failed to refund poster after aborted batch", creditErr, observability.Fields{
				"poster": poster,
				"amount": total,
			})
		}
		s.metrics.RecordError("bounty_create", "insert")
		return nil, fmt.Errorf("failed to store bounties: %w", err)
	}

	for _, b := range bounties {
		if err := s.bank.Credit(ctx, EscrowAccount(b.ID), b.RewardAmount); err != nil {
			s.metrics.RecordError("bounty_create", "escrow_credit")
			return nil, fmt.Errorf("failed to fund escrow for bounty %d: %w", b.ID, err)
		}
	}

	s.metrics.RecordSuccess("bounty_create")
	s.logger.Info(ctx, "bounties created", observability.Fields{
		"poster": poster,
		"count":  len(bounties),
		"total":  total,
	})

	return bounties, nil
}

// SubmitSolution records a hunter's proposed fix on an open bounty. A
// hunter may hold only one pending submission per bounty, and the deadline
// is checked lazily at call time.
func (s *Service) SubmitSolution(ctx context.Context, bountyID int64, hunter, solutionRef string) (*submission.Submission, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("bounty_submit", time.Since(start).Seconds())
	}()

	unlock := s.locks.Lock(bountyKey(bountyID))
	defer unlock()

	b, err := s.registry.Bounties().GetBounty(ctx, bountyID)
	if err != nil {
		s.metrics.RecordError("bounty_submit", "lookup")
		return nil, err
	}
	if b.Status != bounty.StatusOpen {
		s.metrics.RecordError("bounty_submit", "not_open")
		return nil, bounty.ErrNotOpen
	}

	existing, err := s.registry.Submissions().ListSubmissions(ctx, bountyID)
	if err != nil {
		s.metrics.RecordError("bounty_submit", "list")
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	for _, sub := range existing {
		if sub.Hunter == hunter && sub.Pending() {
			s.metrics.RecordError("bounty_submit", "duplicate")
			return nil, bounty.ErrDuplicateSubmission
		}
	}

	if b.Expired(s.now()) {
		s.metrics.RecordError("bounty_submit", "past_deadline")
		return nil, bounty.ErrPastDeadline
	}

	sub := submission.NewSubmission(bountyID, hunter, solutionRef)
	if err := s.registry.Submissions().InsertSubmission(ctx, sub); err != nil {
		s.metrics.RecordError("bounty_submit", "insert")
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.metrics.RecordSuccess("bounty_submit")
	s.logger.Info(ctx, "solution submitted", observability.Fields{
		"bounty_id":     bountyID,
		"hunter":        hunter,
		"submission_id": sub.ID,
	})

	return sub, nil
}

// Resolve settles an open bounty on a winning submission. The escrowed
// reward is split fee/payout by basis points with floor division; any
// remainder stays with the payout. The winner's submission is approved,
// other pending submissions stay pending, and an achievement credential is
// issued to the winner.
func (s *Service) Resolve(ctx context.Context, caller string, bountyID int64, winner, evidenceRef string, feeBps uint64) (*credential.Credential, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("bounty_resolve", time.Since(start).Seconds())
	}()

	if feeBps > feeBasisPointsDenominator {
		s.metrics.RecordError("bounty_resolve", "invalid_fee")
		return nil, bounty.ErrInvalidFee
	}

	unlock := s.locks.Lock(bountyKey(bountyID))
	defer unlock()

	b, err := s.registry.Bounties().GetBounty(ctx, bountyID)
	if err != nil {
		s.metrics.RecordError("bounty_resolve", "lookup")
		return nil, err
	}
	if b.Terminal() {
		s.metrics.RecordError("bounty_resolve", "terminal")
		return nil, bounty.ErrAlreadyTerminal
	}
	if b.Poster != caller {
		s.metrics.RecordError("bounty_resolve", "not_poster")
		return nil, bounty.ErrNotPoster
	}

	winning, err := s.pendingSubmission(ctx, bountyID, winner)
	if err != nil {
		s.metrics.RecordError("bounty_resolve", "invalid_winner")
		return nil, err
	}

	fee := b.RewardAmount * feeBps / feeBasisPointsDenominator
	payout := b.RewardAmount - fee

	if err := s.bank.Debit(ctx, EscrowAccount(bountyID), b.RewardAmount); err != nil {
		s.metrics.RecordError("bounty_resolve", "escrow_debit")
		return nil, fmt.Errorf("failed to release escrow: %w", err)
	}
	if err := s.bank.Credit(ctx, winner, payout); err != nil {
		s.metrics.RecordError("bounty_resolve", "payout")
		return nil, fmt.Errorf("failed to pay winner: %w", err)
	}
	if fee > 0 {
		if err := s.bank.Credit(ctx, s.cfg.PlatformAccount, fee); err != nil {
			s.metrics.RecordError("bounty_resolve", "fee")
			return nil, fmt.Errorf("failed to pay platform fee: %w", err)
		}
	}

	winning.Decision = submission.DecisionApproved
	if err := s.registry.Submissions().UpdateSubmission(ctx, winning); err != nil {
		s.metrics.RecordError("bounty_resolve", "approve")
		return nil, fmt.Errorf("failed to approve submission: %w", err)
	}

	now := s.now()
	b.Status = bounty.StatusResolved
	b.Winner = &winner
	b.ResolvedAt = &now
	if err := s.registry.Bounties().UpdateBounty(ctx, b); err != nil {
		s.metrics.RecordError("bounty_resolve", "update")
		return nil, fmt.Errorf("failed to update bounty: %w", err)
	}

	cred := credential.NewCredential(b.AuditID, b.ID, winner, s.qualityScore(ctx, b.AuditID), evidenceRef)
	if err := s.registry.Credentials().InsertCredential(ctx, cred); err != nil {
		s.metrics.RecordError("bounty_resolve", "credential")
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	s.metrics.RecordSuccess("bounty_resolve")
	s.logger.Info(ctx, "bounty resolved", observability.Fields{
		"bounty_id": bountyID,
		"winner":    winner,
		"payout":    payout,
		"fee":       fee,
	})

	return cred, nil
}

// Close refunds an open bounty's escrowed reward to the poster and ends
// its lifecycle.
func (s *Service) Close(ctx context.Context, caller string, bountyID int64) error {
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("bounty_close", time.Since(start).Seconds())
	}()

	unlock := s.locks.Lock(bountyKey(bountyID))
	defer unlock()

	b, err := s.registry.Bounties().GetBounty(ctx, bountyID)
	if err != nil {
		s.metrics.RecordError("bounty_close", "lookup")
		return err
	}
	if b.Terminal() {
		s.metrics.RecordError("bounty_close", "terminal")
		return bounty.ErrAlreadyTerminal
	}
	if b.Poster != caller {
		s.metrics.RecordError("bounty_close", "not_poster")
		return bounty.ErrNotPoster
	}

	if err := s.bank.Debit(ctx, EscrowAccount(bountyID), b.RewardAmount); err != nil {
		s.metrics.RecordError("bounty_close", "escrow_debit")
		return fmt.Errorf("failed to release escrow: %w", err)
	}
	if err := s.bank.Credit(ctx, b.Poster, b.RewardAmount); err != nil {
		s.metrics.RecordError("bounty_close", "refund")
		return fmt.Errorf("failed to refund poster: %w", err)
	}

	b.Status = bounty.StatusClosed
	if err := s.registry.Bounties().UpdateBounty(ctx, b); err != nil {
		s.metrics.RecordError("bounty_close", "update")
		return fmt.Errorf("failed to update bounty: %w", err)
	}

	s.metrics.RecordSuccess("bounty_close")
	s.logger.Info(ctx, "bounty closed", observability.Fields{
		"bounty_id": bountyID,
		"refund":    b.RewardAmount,
	})

	return nil
}

// Reject marks one submission rejected. The bounty itself stays open;
// rejecting leftover pending submissions after a resolve is an explicit
// per-submission act.
func (s *Service) Reject(ctx context.Context, caller string, bountyID, submissionID int64) error {
	unlock := s.locks.Lock(bountyKey(bountyID))
	defer unlock()

	b, err := s.registry.Bounties().GetBounty(ctx, bountyID)
	if err != nil {
		s.metrics.RecordError("bounty_reject", "lookup")
		return err
	}
	if b.Poster != caller {
		s.metrics.RecordError("bounty_reject", "not_poster")
		return bounty.ErrNotPoster
	}

	sub, err := s.registry.Submissions().GetSubmission(ctx, submissionID)
	if err != nil {
		s.metrics.RecordError("bounty_reject", "lookup_submission")
		return err
	}
	if sub.BountyID != bountyID {
		s.metrics.RecordError("bounty_reject", "wrong_bounty")
		return submission.ErrNotFound
	}
	if !sub.Pending() {
		s.metrics.RecordError("bounty_reject", "already_decided")
		return submission.ErrAlreadyDecided
	}

	sub.Decision = submission.DecisionRejected
	if err := s.registry.Submissions().UpdateSubmission(ctx, sub); err != nil {
		s.metrics.RecordError("bounty_reject", "update")
		return fmt.Errorf("failed to update submission: %w", err)
	}

	s.metrics.RecordSuccess("bounty_reject")
	return nil
}

// GetBounty returns a bounty by id.
func (s *Service) GetBounty(ctx context.Context, bountyID int64) (*bounty.Bounty, error) {
	return s.registry.Bounties().GetBounty(ctx, bountyID)
}

// ListBounties returns bounties, optionally filtered by status.
func (s *Service) ListBounties(ctx context.Context, status *bounty.BountyStatus) ([]*bounty.Bounty, error) {
	return s.registry.Bounties().ListBounties(ctx, status)
}

// GetSubmissions returns all submissions on a bounty in submission order.
func (s *Service) GetSubmissions(ctx context.Context, bountyID int64) ([]*submission.Submission, error) {
	if _, err := s.registry.Bounties().GetBounty(ctx, bountyID); err != nil {
		return nil, err
	}
	return s.registry.Submissions().ListSubmissions(ctx, bountyID)
}

// ListCredentials returns the credentials issued to a hunter.
func (s *Service) ListCredentials(ctx context.Context, hunter string) ([]*credential.Credential, error) {
	return s.registry.Credentials().ListCredentials(ctx, hunter)
}

// pendingSubmission finds the winner's pending submission on a bounty, or
// bounty.ErrInvalidWinner.
func (s *Service) pendingSubmission(ctx context.Context, bountyID int64, hunter string) (*submission.Submission, error) {
	subs, err := s.registry.Submissions().ListSubmissions(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	for _, sub := range subs {
		if sub.Hunter == hunter && sub.Pending() {
			return sub, nil
		}
	}
	return nil, bounty.ErrInvalidWinner
}

// qualityScore resolves the audit score used on issued credentials. A
// missing audit yields zero rather than failing the resolve.
func (s *Service) qualityScore(ctx context.Context, auditID int64) int {
	a, err := s.registry.Audits().GetAudit(ctx, auditID)
	if err != nil {
		return 0
	}
	return a.Score
}

func bountyKey(id int64) string {
	return fmt.Sprintf("bounty:%d", id)
}

func posterKey(account string) string {
	return fmt.Sprintf("poster:%s", account)
}
