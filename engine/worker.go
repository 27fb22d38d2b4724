// Package engine exposes the coordination engine as a handler.Worker:
// one typed request dispatch over the audit ledger, the bounty service
// and the commit-reveal protocol.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/bountysvc"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/commitreveal"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/handler"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/ledger"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
)

// Operation names routed by the worker.
const (
	OpAuditRequest      = "audit.request"
	OpAuditGet          = "audit.get"
	OpAuditIssues       = "audit.issues"
	OpBountyCreate      = "bounty.create"
	OpBountyGet         = "bounty.get"
	OpBountyList        = "bounty.list"
	OpBountySubmit      = "bounty.submit"
	OpBountyResolve     = "bounty.resolve"
	OpBountyClose       = "bounty.close"
	OpBountyReject      = "bounty.reject"
	OpBountySubmissions = "bounty.submissions"
	OpCommit            = "commit.commit"
	OpReveal            = "commit.reveal"
	OpCommitStatus      = "commit.status"
	OpCredentialList    = "credential.list"
)

// Worker routes operation requests to the engine services.
type Worker struct {
	ledger   *ledger.Ledger
	bounties *bountysvc.Service
	commits  *commitreveal.Protocol
	logger   observability.Logger
}

var _ handler.Worker = (*Worker)(nil)

func NewWorker(l *ledger.Ledger, b *bountysvc.Service, c *commitreveal.Protocol, provider observability.Provider) *Worker {
	return &Worker{
		ledger:   l,
		bounties: b,
		commits:  c,
		logger:   provider.Logger("engine"),
	}
}

func (w *Worker) Name() string {
	return "engine"
}

// Health verifies the engine's stores answer a trivial read.
func (w *Worker) Health(ctx context.Context) error {
	_, err := w.bounties.ListBounties(ctx, nil)
	return err
}

// Process dispatches one request by its operation name. Domain failures
// come back as error-coded responses; only transport-level problems are
// returned as errors.
func (w *Worker) Process(ctx context.Context, req handler.Request) (handler.Response, error) {
	switch req.Type {
	case OpAuditRequest:
		return w.auditRequest(ctx, req)
	case OpAuditGet:
		return w.auditGet(ctx, req)
	case OpAuditIssues:
		return w.auditIssues(ctx, req)
	case OpBountyCreate:
		return w.bountyCreate(ctx, req)
	case OpBountyGet:
		return w.bountyGet(ctx, req)
	case OpBountyList:
		return w.bountyList(ctx, req)
	case OpBountySubmit:
		return w.bountySubmit(ctx, req)
	case OpBountyResolve:
		return w.bountyResolve(ctx, req)
	case OpBountyClose:
		return w.bountyClose(ctx, req)
	case OpBountyReject:
		return w.bountyReject(ctx, req)
	case OpBountySubmissions:
		return w.bountySubmissions(ctx, req)
	case OpCommit:
		return w.commit(ctx, req)
	case OpReveal:
		return w.reveal(ctx, req)
	case OpCommitStatus:
		return w.commitStatus(ctx, req)
	case OpCredentialList:
		return w.credentialList(ctx, req)
	default:
		return handler.NewErrorResponse(req.ID, handler.CodeValidationError,
			fmt.Sprintf("unknown operation %q", req.Type), ""), nil
	}
}

type auditRequestPayload struct {
	Requester string `json:"requester"`
	SourceRef string `json:"source_ref"`
}

func (w *Worker) auditRequest(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p auditRequestPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	a, err := w.ledger.Request(ctx, p.Requester, p.SourceRef)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, a)
}

type auditRefPayload struct {
	AuditID int64 `json:"audit_id"`
}

func (w *Worker) auditGet(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p auditRefPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	a, err := w.ledger.Get(ctx, p.AuditID)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, a)
}

func (w *Worker) auditIssues(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p auditRefPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	issues, err := w.ledger.Issues(ctx, p.AuditID)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, issues)
}

type bountyCreatePayload struct {
	Poster   string    `json:"poster"`
	AuditID  int64     `json:"audit_id"`
	IssueID  int64     `json:"issue_id"`
	Reward   uint64    `json:"reward"`
	Deadline time.Time `json:"deadline"`
}

func (w *Worker) bountyCreate(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyCreatePayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	b, err := w.bounties.CreateBounty(ctx, p.Poster, p.AuditID, p.IssueID, p.Reward, p.Deadline)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, b)
}

type bountyRefPayload struct {
	BountyID int64 `json:"bounty_id"`
}

func (w *Worker) bountyGet(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyRefPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	b, err := w.bounties.GetBounty(ctx, p.BountyID)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, b)
}

type bountyListPayload struct {
	Status *string `json:"status,omitempty"`
}

func (w *Worker) bountyList(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyListPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	var status *bounty.BountyStatus
	if p.Status != nil {
		s := bounty.BountyStatus(*p.Status)
		switch s {
		case bounty.StatusOpen, bounty.StatusResolved, bounty.StatusClosed:
			status = &s
		default:
			return handler.NewErrorResponse(req.ID, handler.CodeValidationError,
				fmt.Sprintf("unknown bounty status %q", *p.Status), ""), nil
		}
	}

	bounties, err := w.bounties.ListBounties(ctx, status)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, bounties)
}

type bountySubmitPayload struct {
	BountyID    int64  `json:"bounty_id"`
	Hunter      string `json:"hunter"`
	SolutionRef string `json:"solution_ref"`
}

func (w *Worker) bountySubmit(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountySubmitPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	sub, err := w.bounties.SubmitSolution(ctx, p.BountyID, p.Hunter, p.SolutionRef)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, sub)
}

type bountyResolvePayload struct {
	Caller      string `json:"caller"`
	BountyID    int64  `json:"bounty_id"`
	Winner      string `json:"winner"`
	EvidenceRef string `json:"evidence_ref"`
	FeeBps      uint64 `json:"fee_bps"`
}

func (w *Worker) bountyResolve(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyResolvePayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	cred, err := w.bounties.Resolve(ctx, p.Caller, p.BountyID, p.Winner, p.EvidenceRef, p.FeeBps)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, cred)
}

type bountyClosePayload struct {
	Caller   string `json:"caller"`
	BountyID int64  `json:"bounty_id"`
}

func (w *Worker) bountyClose(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyClosePayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	if err := w.bounties.Close(ctx, p.Caller, p.BountyID); err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, map[string]int64{"bounty_id": p.BountyID})
}

type bountyRejectPayload struct {
	Caller       string `json:"caller"`
	BountyID     int64  `json:"bounty_id"`
	SubmissionID int64  `json:"submission_id"`
}

func (w *Worker) bountyReject(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyRejectPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	if err := w.bounties.Reject(ctx, p.Caller, p.BountyID, p.SubmissionID); err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, map[string]int64{"submission_id": p.SubmissionID})
}

func (w *Worker) bountySubmissions(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p bountyRefPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	subs, err := w.bounties.GetSubmissions(ctx, p.BountyID)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, subs)
}

type commitPayload struct {
	Hunter     string `json:"hunter"`
	BountyID   int64  `json:"bounty_id"`
	CommitHash string `json:"commit_hash"`
}

func (w *Worker) commit(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p commitPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	c, err := w.commits.Commit(ctx, p.Hunter, p.BountyID, p.CommitHash)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, c)
}

type revealPayload struct {
	Hunter   string `json:"hunter"`
	BountyID int64  `json:"bounty_id"`
	Value    string `json:"value"`
	Nonce    string `json:"nonce"`
}

func (w *Worker) reveal(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p revealPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	c, err := w.commits.Reveal(ctx, p.Hunter, p.BountyID, p.Value, p.Nonce)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, c)
}

type commitStatusPayload struct {
	Hunter   string `json:"hunter"`
	BountyID int64  `json:"bounty_id"`
}

func (w *Worker) commitStatus(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p commitStatusPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	state, err := w.commits.Status(ctx, p.Hunter, p.BountyID)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, map[string]string{"state": string(state)})
}

type credentialListPayload struct {
	Hunter string `json:"hunter"`
}

func (w *Worker) credentialList(ctx context.Context, req handler.Request) (handler.Response, error) {
	var p credentialListPayload
	if err := req.Unmarshal(&p); err != nil {
		return badPayload(req, err), nil
	}

	creds, err := w.bounties.ListCredentials(ctx, p.Hunter)
	if err != nil {
		return handler.DomainErrorResponse(req.ID, err), nil
	}
	return handler.NewSuccessResponse(req.ID, creds)
}

func badPayload(req handler.Request, err error) handler.Response {
	return handler.NewErrorResponse(req.ID, handler.CodeValidationError,
		"malformed payload", err.Error())
}
