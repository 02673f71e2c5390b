package progress

import "errors"

var (
	ErrInvalidSample = errors.New("sample must have a positive total duration")
)
