package outline

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/internal/features/course"
	"github.com/coursehub/curriculum-server-go/internal/features/homework"
	"github.com/coursehub/curriculum-server-go/internal/features/progress"
	"github.com/coursehub/curriculum-server-go/pkg/ordering"
	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Section is an ordered group of lectures within a course. Positions are
// dense 0..n-1 within the course; deleting a section cascades its lectures,
// and deleting a course cascades its sections.
type Section struct {
	types.BaseModel

	CourseID uuid.UUID `gorm:"type:uuid;not null;column:course_id;index" json:"courseId"`
	Title    string    `gorm:"type:varchar(120);not null" json:"title"`
	Position int       `gorm:"type:int;not null;default:0" json:"position"`

	// Relations
	Course   *course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Lectures []Lecture      `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"lectures,omitempty"`
}

// TableName overrides the default table name.
func (Section) TableName() string { return "sections" }

// Lecture is a single learning unit. Positions are dense 0..n-1 within the
// owning section. Progress and homework rows exist only while their lecture
// does: removing a lecture cascades both.
type Lecture struct {
	types.BaseModel

	SectionID                  uuid.UUID `gorm:"type:uuid;not null;column:section_id;index" json:"sectionId"`
	Title                      string    `gorm:"type:varchar(120);not null" json:"title"`
	Position                   int       `gorm:"type:int;not null;default:0" json:"position"`
	Duration                   *int      `gorm:"type:int" json:"duration,omitempty"`
	VideoURL                   *string   `gorm:"type:text;column:video_url" json:"videoUrl,omitempty"`
	IsFree                     bool      `gorm:"type:boolean;not null;default:false;column:is_free" json:"isFree"`
	RequiresHomeworkCompletion bool      `gorm:"type:boolean;not null;default:false;column:requires_homework_completion" json:"requiresHomeworkCompletion"`

	// Relations
	Progress []progress.Record     `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"-"`
	Homework []homework.Submission `gorm:"foreignKey:LectureID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the default table name.
func (Lecture) TableName() string { return "lectures" }

// TreeForCourse loads the full persisted outline in position order.
func TreeForCourse(db *gorm.DB, courseID uuid.UUID) ([]Section, error) {
	var sections []Section
	err := db.
		Preload("Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// LecturesForSection loads a section's lectures in position order. The
// section must belong to the given course.
func LecturesForSection(db *gorm.DB, courseID, sectionID uuid.UUID) ([]Lecture, error) {
	var sec Section
	if err := db.First(&sec, "id = ? AND course_id = ?", sectionID, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	var lectures []Lecture
	if err := db.Where("section_id = ?", sectionID).Order("position ASC").Find(&lectures).Error; err != nil {
		return nil, err
	}

	ordering.SortByPosition(lectures, func(l Lecture) int { return l.Position })
	return lectures, nil
}

// persistedIDs captures the stored id sets used by the deletion phase.
type persistedIDs struct {
	sections          []uuid.UUID
	lecturesBySection map[uuid.UUID][]uuid.UUID
}

func loadPersistedIDs(db *gorm.DB, courseID uuid.UUID) (persistedIDs, error) {
	state := persistedIDs{lecturesBySection: map[uuid.UUID][]uuid.UUID{}}

	var sections []Section
	if err := db.Select("id").Where("course_id = ?", courseID).Find(&sections).Error; err != nil {
		return state, err
	}

	for _, sec := range sections {
		state.sections = append(state.sections, sec.ID)
	}

	if len(state.sections) == 0 {
		return state, nil
	}

	var lectures []Lecture
	if err := db.Select("id", "section_id").Where("section_id IN ?", state.sections).Find(&lectures).Error; err != nil {
		return state, err
	}

	for _, lec := range lectures {
		state.lecturesBySection[lec.SectionID] = append(state.lecturesBySection[lec.SectionID], lec.ID)
	}

	return state, nil
}
