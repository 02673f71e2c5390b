package jobs

import (
	"context"

	"log/slog"

	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/course"
)

// LectureCountRepairJob recomputes the denormalized total_lectures value on
// every course row. The reconciler keeps the count best-effort; this job
// heals any drift left behind by failed aggregate updates.
type LectureCountRepairJob struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewLectureCountRepairJob creates the repair job.
func NewLectureCountRepairJob(db *gorm.DB, logger *slog.Logger) *LectureCountRepairJob {
	return &LectureCountRepairJob{db: db, logger: logger}
}

// Name returns the job identifier.
func (j *LectureCountRepairJob) Name() string { return "lecture-count-repair" }

// Execute recounts lectures per course and fixes stale rows.
func (j *LectureCountRepairJob) Execute(ctx context.Context) error {
	db := j.db.WithContext(ctx)

	type countRow struct {
		CourseID string
		Count    int
	}

	var counts []countRow
	if err := db.
		Table("sections").
		Select("sections.course_id AS course_id, COUNT(lectures.id) AS count").
		Joins("LEFT JOIN lectures ON lectures.section_id = sections.id").
		Group("sections.course_id").
		Scan(&counts).Error; err != nil {
		return err
	}

	byCourse := make(map[string]int, len(counts))
	for _, row := range counts {
		byCourse[row.CourseID] = row.Count
	}

	var courses []course.Course
	if err := db.Select("id", "total_lectures").Find(&courses).Error; err != nil {
		return err
	}

	repaired := 0
	for _, crs := range courses {
		want := byCourse[crs.ID.String()]
		if crs.TotalLectures == want {
			continue
		}
		if err := course.SetTotalLectures(db, crs.ID, want); err != nil {
			j.logger.Error("lecture count repair failed for course",
				slog.String("courseId", crs.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		j.logger.Info("repaired stale lecture counts", slog.Int("courses", repaired))
	}

	return nil
}
