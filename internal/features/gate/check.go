package gate

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/homework"
	"github.com/coursehub/curriculum-server-go/internal/features/outline"
	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/pkg/metrics"
)

// Check decides whether the learner may open the lecture at the given
// position in a section. Completion of the immediate predecessor means
// video completion or an approved homework submission. Every resolution
// failure denies access; the gate never fails open.
func Check(db *gorm.DB, userID, courseID, sectionID uuid.UUID, index int) (Decision, error) {
	lectures, err := outline.LecturesForSection(db, courseID, sectionID)
	if err != nil {
		if err == outline.ErrSectionNotFound {
			metrics.RecordGateDecision(string(StatusNotFound))
			return Decision{Status: StatusNotFound}, nil
		}
		metrics.RecordGateDecision("error")
		return Decision{Status: StatusLocked}, err
	}

	decision, err := decide(lectures, index, func(pred outline.Lecture) (bool, error) {
		completed, err := progress.Completion(db, userID, courseID)
		if err != nil {
			return false, err
		}
		if completed[pred.ID] {
			return true, nil
		}
		return homework.ApprovedForLecture(db, userID, pred.ID)
	})

	if err != nil {
		metrics.RecordGateDecision("error")
		return decision, err
	}

	metrics.RecordGateDecision(string(decision.Status))
	return decision, nil
}
