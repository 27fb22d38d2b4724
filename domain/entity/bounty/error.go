package bounty

import "errors"

var (
	ErrNotFound              = errors.New("bounty not found")
	ErrNotOpen               = errors.New("bounty not open")
	ErrAlreadyTerminal       = errors.New("bounty already in terminal state")
	ErrPastDeadline          = errors.New("bounty deadline has passed")
	ErrNotPoster             = errors.New("caller is not the bounty poster")
	ErrInvalidWinner         = errors.New("winner has no pending submission on bounty")
	ErrDuplicateSubmission   = errors.New("hunter already has a pending submission on bounty")
	ErrInsufficientFunds     = errors.New("poster balance cannot cover bounty rewards")
	ErrInsufficientAllowance = errors.New("poster allowance cannot cover bounty rewards")
	ErrInvalidFee            = errors.New("platform fee exceeds 10000 basis points")
)
