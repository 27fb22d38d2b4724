package submission

import "errors"

var (
	ErrNotFound       = errors.New("submission not found")
	ErrAlreadyDecided = errors.New("submission already decided")
)
