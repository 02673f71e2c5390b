package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Record is the per (user, course, lecture) watch state. The composite
// unique index is the upsert conflict key; at most one live row per key.
// completed and watch_count are monotonic: later lower-percentage samples
// never regress them.
type Record struct {
	types.BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_progress_key,priority:1" json:"userId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_progress_key,priority:2;index" json:"courseId"`
	LectureID uuid.UUID `gorm:"type:uuid;not null;column:lecture_id;uniqueIndex:idx_progress_key,priority:3" json:"lectureId"`

	LastPositionSeconds  float64 `gorm:"type:numeric(10,2);not null;default:0;column:last_position_seconds" json:"lastPositionSeconds"`
	WatchPercentage      int     `gorm:"type:int;not null;default:0;column:watch_percentage" json:"watchPercentage"`
	WatchDurationSeconds float64 `gorm:"type:numeric(10,2);not null;default:0;column:watch_duration_seconds" json:"watchDurationSeconds"`
	TotalDurationSeconds float64 `gorm:"type:numeric(10,2);not null;default:0;column:total_duration_seconds" json:"totalDurationSeconds"`
	Completed            bool    `gorm:"type:boolean;not null;default:false" json:"completed"`
	WatchCount           int     `gorm:"type:int;not null;default:0;column:watch_count" json:"watchCount"`
}

// TableName overrides the default table name.
func (Record) TableName() string { return "progress" }

// Completion returns the lecture completion map for a user in a course.
// Consumed by the prerequisite gate and by outline badges.
func Completion(db *gorm.DB, userID, courseID uuid.UUID) (map[uuid.UUID]bool, error) {
	var records []Record
	if err := db.
		Select("lecture_id", "completed").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	completed := make(map[uuid.UUID]bool, len(records))
	for _, rec := range records {
		completed[rec.LectureID] = rec.Completed
	}
	return completed, nil
}

// ForCourse returns the user's full progress rows for a course.
func ForCourse(db *gorm.DB, userID, courseID uuid.UUID) ([]Record, error) {
	var records []Record
	if err := db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
