package commitment

import "errors"

var (
	ErrAlreadyCommitted = errors.New("live commitment already exists for hunter and bounty")
	ErrNoCommitment     = errors.New("no commitment exists for hunter and bounty")
	ErrWindowExpired    = errors.New("reveal window has expired")
	ErrHashMismatch     = errors.New("revealed value does not match commit hash")
	ErrAlreadyRevealed  = errors.New("commitment already revealed")
)
