package audit

import "errors"

var (
	ErrNotFound         = errors.New("audit not found")
	ErrAlreadyCompleted = errors.New("audit already completed")
	ErrInvalidScore     = errors.New("audit score out of range")
)
