package course

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/pagination"
	"github.com/coursehub/curriculum-server-go/pkg/types"
	"github.com/coursehub/curriculum-server-go/pkg/validation"
)

// Course represents a marketplace course.
type Course struct {
	types.BaseModel

	InstructorID uuid.UUID   `gorm:"type:uuid;not null;column:instructor_id;index" json:"instructorId"`
	Title        string      `gorm:"type:varchar(120);not null" json:"title"`
	Slug         string      `gorm:"type:varchar(60);not null;uniqueIndex" json:"slug"`
	Description  *string     `gorm:"type:varchar(2000)" json:"description,omitempty"`
	Price        types.Money `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Published    bool        `gorm:"type:boolean;not null;default:false;column:is_published;index" json:"isPublished"`

	// TotalLectures is a denormalized count maintained by outline writes
	// and repaired by a background job.
	TotalLectures int `gorm:"type:int;not null;default:0;column:total_lectures" json:"totalLectures"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// ListFilters defines course query filters.
type ListFilters struct {
	Keyword       string
	InstructorID  *uuid.UUID
	PublishedOnly bool
}

// CreateInput carries data for creating a new course.
type CreateInput struct {
	InstructorID uuid.UUID
	Title        string
	Slug         string
	Description  *string
	Price        *types.Money
	Published    *bool
}

// UpdateInput captures mutable course fields.
type UpdateInput struct {
	Title        *string
	Slug         *string
	DescProvided bool
	Description  *string
	Price        *types.Money
	Published    *bool
}

// List retrieves paginated courses with filters.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{})

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", keyword, keyword)
	}

	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}

	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	if err := query.Order("created_at DESC").Offset(params.Skip).Limit(params.Limit).Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Get retrieves a course by ID.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var crs Course
	if err := db.First(&crs, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return crs, ErrCourseNotFound
		}
		return crs, err
	}
	return crs, nil
}

// Create inserts a new course.
func Create(db *gorm.DB, input CreateInput) (Course, error) {
	slug, err := validation.NormalizeSlug(input.Slug)
	if err != nil {
		return Course{}, err
	}

	crs := Course{
		InstructorID: input.InstructorID,
		Title:        strings.TrimSpace(input.Title),
		Slug:         slug,
		Description:  input.Description,
	}

	if input.Price != nil {
		if input.Price.IsNegative() {
			return crs, ErrInvalidPrice
		}
		crs.Price = *input.Price
	}

	if input.Published != nil {
		crs.Published = *input.Published
	}

	if err := db.Create(&crs).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return crs, ErrSlugTaken
		}
		return crs, err
	}

	return crs, nil
}

// Update modifies an existing course.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Course, error) {
	crs, err := Get(db, id)
	if err != nil {
		return crs, err
	}

	updates := map[string]interface{}{}

	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}

	if input.Slug != nil {
		slug, err := validation.NormalizeSlug(*input.Slug)
		if err != nil {
			return crs, err
		}
		updates["slug"] = slug
	}

	if input.DescProvided {
		updates["description"] = input.Description
	}

	if input.Price != nil {
		if input.Price.IsNegative() {
			return crs, ErrInvalidPrice
		}
		updates["price"] = *input.Price
	}

	if input.Published != nil {
		updates["is_published"] = *input.Published
	}

	if len(updates) > 0 {
		if err := db.Model(&Course{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return crs, ErrSlugTaken
			}
			return crs, err
		}
	}

	return Get(db, id)
}

// Delete removes a course. Outline rows cascade through foreign keys.
func Delete(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// SetTotalLectures writes the denormalized lecture count.
func SetTotalLectures(db *gorm.DB, id uuid.UUID, count int) error {
	return db.Model(&Course{}).Where("id = ?", id).Update("total_lectures", count).Error
}
