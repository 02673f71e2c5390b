package gate

import (
	"github.com/google/uuid"

	"github.com/coursehub/curriculum-server-go/internal/features/outline"
)

// Status classifies an access decision so callers can render "locked"
// distinctly from "does not exist".
type Status string

const (
	StatusAllowed  Status = "allowed"
	StatusLocked   Status = "locked"
	StatusNotFound Status = "not_found"
)

// Decision is the gate's answer for one lecture request.
type Decision struct {
	Status Status `json:"status"`

	// PredecessorID names the lecture blocking access when Status is locked.
	PredecessorID *uuid.UUID `json:"predecessorId,omitempty"`
}

// Allowed reports whether access is granted.
func (d Decision) Allowed() bool { return d.Status == StatusAllowed }

// decide evaluates the single-predecessor rule over a section's lectures in
// position order. Only the immediate predecessor is inspected; earlier
// lectures in the section are not transitively enforced.
//
// isCompleted resolves whether the learner has completed a lecture (video
// completion or approved homework). Any resolution error fails closed.
func decide(lectures []outline.Lecture, index int, isCompleted func(outline.Lecture) (bool, error)) (Decision, error) {
	if index < 0 || index >= len(lectures) {
		return Decision{Status: StatusNotFound}, nil
	}

	if index == 0 {
		return Decision{Status: StatusAllowed}, nil
	}

	pred := lectures[index-1]
	if !pred.RequiresHomeworkCompletion {
		return Decision{Status: StatusAllowed}, nil
	}

	done, err := isCompleted(pred)
	if err != nil {
		return Decision{Status: StatusLocked, PredecessorID: &pred.ID}, err
	}

	if done {
		return Decision{Status: StatusAllowed}, nil
	}

	return Decision{Status: StatusLocked, PredecessorID: &pred.ID}, nil
}
