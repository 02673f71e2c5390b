package homework

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Submission is a learner's homework hand-in for a lecture. The gate treats
// an approved submission as completion for lectures configured to require
// homework.
type Submission struct {
	types.BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id;index:idx_homework_user_lecture,priority:1" json:"userId"`
	LectureID uuid.UUID `gorm:"type:uuid;not null;column:lecture_id;index:idx_homework_user_lecture,priority:2" json:"lectureId"`

	Files   pq.StringArray       `gorm:"type:text[]" json:"files"`
	Answers datatypes.JSON       `gorm:"type:jsonb" json:"answers,omitempty"`
	Status  types.HomeworkStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	ReviewedBy *uuid.UUID `gorm:"type:uuid;column:reviewed_by" json:"reviewedBy,omitempty"`
	Feedback   *string    `gorm:"type:varchar(1000)" json:"feedback,omitempty"`
}

// TableName overrides the default table name.
func (Submission) TableName() string { return "homework_submissions" }

// CreateInput carries data for a new submission.
type CreateInput struct {
	UserID    uuid.UUID
	LectureID uuid.UUID
	Files     []string
	Answers   datatypes.JSON
}

// Create inserts a new pending submission. One pending submission per
// (user, lecture) at a time; resubmission is allowed after review.
func Create(db *gorm.DB, input CreateInput) (Submission, error) {
	var pending int64
	if err := db.Model(&Submission{}).
		Where("user_id = ? AND lecture_id = ? AND status = ?", input.UserID, input.LectureID, types.HomeworkStatusPending).
		Count(&pending).Error; err != nil {
		return Submission{}, err
	}
	if pending > 0 {
		return Submission{}, ErrAlreadySubmitted
	}

	sub := Submission{
		UserID:    input.UserID,
		LectureID: input.LectureID,
		Files:     input.Files,
		Answers:   input.Answers,
		Status:    types.HomeworkStatusPending,
	}

	if err := db.Create(&sub).Error; err != nil {
		return sub, err
	}
	return sub, nil
}

// Get retrieves a submission by ID.
func Get(db *gorm.DB, id uuid.UUID) (Submission, error) {
	var sub Submission
	if err := db.First(&sub, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return sub, ErrSubmissionNotFound
		}
		return sub, err
	}
	return sub, nil
}

// Review sets the review outcome on a submission.
func Review(db *gorm.DB, id, reviewerID uuid.UUID, status types.HomeworkStatus, feedback *string) (Submission, error) {
	if status != types.HomeworkStatusApproved && status != types.HomeworkStatusRejected {
		return Submission{}, ErrInvalidStatus
	}

	sub, err := Get(db, id)
	if err != nil {
		return sub, err
	}

	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewerID,
		"feedback":    feedback,
	}

	if err := db.Model(&Submission{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return sub, err
	}

	return Get(db, id)
}

// ApprovedForLecture reports whether the user has an approved submission
// for the lecture. Consumed by the prerequisite gate.
func ApprovedForLecture(db *gorm.DB, userID, lectureID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&Submission{}).
		Where("user_id = ? AND lecture_id = ? AND status = ?", userID, lectureID, types.HomeworkStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForLecture returns submissions for a lecture, newest first.
func ListForLecture(db *gorm.DB, lectureID uuid.UUID) ([]Submission, error) {
	var subs []Submission
	if err := db.Where("lecture_id = ?", lectureID).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
