package outline

import (
	"errors"
	"fmt"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSectionNotFound = errors.New("section not found")
)

// ValidationError rejects a malformed desired tree before any write is
// attempted.
type ValidationError struct {
	Node   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid outline at %s: %s", e.Node, e.Reason)
}

// StoreWriteError identifies the node whose upsert or delete failed. The
// reconciliation aborts at that point; retrying with the same tree is safe
// because every write is idempotent by id.
type StoreWriteError struct {
	Op   string
	Node string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("outline %s failed at %s: %v", e.Op, e.Node, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a tree validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
