package homework

import "errors"

var (
	ErrSubmissionNotFound = errors.New("homework submission not found")
	ErrInvalidStatus      = errors.New("status must be approved or rejected")
	ErrAlreadySubmitted   = errors.New("a pending submission already exists for this lecture")
)
