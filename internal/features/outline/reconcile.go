package outline

import (
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursehub/curriculum-server-go/internal/features/course"
	"github.com/coursehub/curriculum-server-go/pkg/metrics"
)

// Reconcile makes the persisted outline of a course match the desired tree
// exactly. Upserts (sections, then lectures) fully precede deletions so a
// lecture moved between sections is re-parented before its old parent's
// leftovers are cleaned up. An empty desired tree deletes everything for
// the course. Resubmitting the same tree is a no-op for stored data.
//
// There is no cross-call locking: two concurrent reconciles for the same
// course are last-writer-wins at the row level.
func Reconcile(db *gorm.DB, logger *slog.Logger, courseID uuid.UUID, desired []SectionInput) error {
	if _, err := course.Get(db, courseID); err != nil {
		if err == course.ErrCourseNotFound {
			metrics.RecordReconcile("course_not_found")
			return ErrCourseNotFound
		}
		metrics.RecordReconcile("store_error")
		return err
	}

	persisted, err := loadPersistedIDs(db, courseID)
	if err != nil {
		metrics.RecordReconcile("store_error")
		return &StoreWriteError{Op: "read", Node: "course", Err: err}
	}

	p, err := buildPlan(courseID, desired, persisted)
	if err != nil {
		metrics.RecordReconcile("validation_error")
		return err
	}

	if err := applyPlan(db, p); err != nil {
		metrics.RecordReconcile("store_error")
		return err
	}

	// Denormalized count on the course row. Best effort: the outline itself
	// is already consistent, so a failure here is logged and dropped.
	if err := course.SetTotalLectures(db, courseID, p.totalLectures); err != nil {
		logger.Error("failed to update course lecture count",
			slog.String("courseId", courseID.String()),
			slog.String("error", err.Error()),
		)
	}

	metrics.RecordReconcile("success")
	return nil
}

// applyPlan executes upserts then deletions. A failing write aborts
// immediately and names the node; earlier upserts stay applied, which is
// safe to retry because every write is idempotent by id.
func applyPlan(db *gorm.DB, p plan) error {
	upsertColumns := func(cols ...string) clause.OnConflict {
		return clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}
	}

	for i := range p.sectionUpserts {
		sec := p.sectionUpserts[i]
		if err := db.Clauses(upsertColumns("title", "position", "course_id")).Create(&sec).Error; err != nil {
			return &StoreWriteError{Op: "upsert", Node: "section " + sec.ID.String(), Err: err}
		}
	}

	for i := range p.lectureUpserts {
		lec := p.lectureUpserts[i]
		if err := db.Clauses(upsertColumns(
			"title", "position", "section_id", "duration", "video_url", "is_free", "requires_homework_completion",
		)).Create(&lec).Error; err != nil {
			return &StoreWriteError{Op: "upsert", Node: "lecture " + lec.ID.String(), Err: err}
		}
	}

	if len(p.deleteLectureIDs) > 0 {
		if err := db.Delete(&Lecture{}, "id IN ?", p.deleteLectureIDs).Error; err != nil {
			return &StoreWriteError{Op: "delete", Node: "lectures", Err: err}
		}
	}

	if len(p.deleteSectionIDs) > 0 {
		if err := db.Delete(&Section{}, "id IN ?", p.deleteSectionIDs).Error; err != nil {
			return &StoreWriteError{Op: "delete", Node: "sections", Err: err}
		}
	}

	return nil
}
