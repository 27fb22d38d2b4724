package handler

import (
	"errors"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/analysis"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
)

// Error codes carried on responses. Adapters map them to their native
// status signalling (HTTP status codes, Lambda batch failures).
const (
	CodeValidationError        = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyCompleted       = "AUDIT_ALREADY_COMPLETED"
	CodeBountyNotOpen          = "BOUNTY_NOT_OPEN"
	CodeAlreadyTerminal        = "BOUNTY_ALREADY_TERMINAL"
	CodePastDeadline           = "PAST_DEADLINE"
	CodeNotPoster              = "NOT_POSTER"
	CodeInvalidWinner          = "INVALID_WINNER"
	CodeDuplicateSubmission    = "DUPLICATE_SUBMISSION"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeInsufficientAllowance  = "INSUFFICIENT_ALLOWANCE"
	CodeInvalidFee             = "INVALID_FEE"
	CodeAlreadyDecided         = "SUBMISSION_ALREADY_DECIDED"
	CodeAlreadyCommitted       = "ALREADY_COMMITTED"
	CodeNoCommitment           = "NO_COMMITMENT"
	CodeWindowExpired          = "REVEAL_WINDOW_EXPIRED"
	CodeHashMismatch           = "HASH_MISMATCH"
	CodeAnalysisFailed         = "ANALYSIS_FAILED"
	CodeTimeout                = "TIMEOUT"
	CodeInternalError          = "INTERNAL_ERROR"
)

// sentinelCodes maps domain sentinel errors to response codes.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{audit.ErrNotFound, CodeNotFound},
	{audit.ErrAlreadyCompleted, CodeAlreadyCompleted},
	{audit.ErrInvalidScore, CodeValidationError},
	{bounty.ErrNotFound, CodeNotFound},
	{bounty.ErrNotOpen, CodeBountyNotOpen},
	{bounty.ErrAlreadyTerminal, CodeAlreadyTerminal},
	{bounty.ErrPastDeadline, CodePastDeadline},
	{bounty.ErrNotPoster, CodeNotPoster},
	{bounty.ErrInvalidWinner, CodeInvalidWinner},
	{bounty.ErrDuplicateSubmission, CodeDuplicateSubmission},
	{bounty.ErrInsufficientFunds, CodeInsufficientFunds},
	{bounty.ErrInsufficientAllowance, CodeInsufficientAllowance},
	{bounty.ErrInvalidFee, CodeInvalidFee},
	{submission.ErrNotFound, CodeNotFound},
	{submission.ErrAlreadyDecided, CodeAlreadyDecided},
	{commitment.ErrAlreadyCommitted, CodeAlreadyCommitted},
	{commitment.ErrNoCommitment, CodeNoCommitment},
	{commitment.ErrWindowExpired, CodeWindowExpired},
	{commitment.ErrHashMismatch, CodeHashMismatch},
	{commitment.ErrAlreadyRevealed, CodeAlreadyDecided},
	{analysis.ErrAnalysisFailed, CodeAnalysisFailed},
}

// CodeForError resolves the response code for a domain error. Errors
// outside the taxonomy map to CodeInternalError.
func CodeForError(err error) string {
	for _, entry := range sentinelCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return CodeInternalError
}

// DomainErrorResponse builds the failure response for a domain error.
func DomainErrorResponse(requestID string, err error) Response {
	return NewErrorResponse(requestID, CodeForError(err), err.Error(), "")
}

// isRetryableCode reports whether a code marks a transient failure.
func isRetryableCode(code string) bool {
	switch code {
	case CodeTimeout, CodeAnalysisFailed:
		return true
	default:
		return false
	}
}
