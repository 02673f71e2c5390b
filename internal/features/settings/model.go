package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursehub/curriculum-server-go/pkg/types"
)

// Settings holds marketplace-wide tuning values. A single row is kept;
// Load seeds it with defaults on first boot.
type Settings struct {
	types.BaseModel

	// CompletionThreshold is the watch percentage (0-100) at which a
	// lecture counts as completed.
	CompletionThreshold int `gorm:"type:integer;not null;default:80;column:completion_threshold" json:"completionThreshold"`
}

// TableName overrides the default table name.
func (Settings) TableName() string { return "settings" }

var ErrInvalidThreshold = errors.New("completion threshold must be between 0 and 100")

// Load returns the settings row, creating it with the given default
// threshold if none exists yet.
func Load(db *gorm.DB, defaultThreshold int) (Settings, error) {
	var s Settings
	err := db.Order("created_at ASC").First(&s).Error
	if err == nil {
		return s, nil
	}
	if err != gorm.ErrRecordNotFound {
		return s, err
	}

	s = Settings{CompletionThreshold: defaultThreshold}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
		return s, err
	}
	return Load(db, defaultThreshold)
}

// CompletionThreshold reads the current threshold. Falls back to the
// provided default when the row cannot be read.
func CompletionThreshold(db *gorm.DB, fallback int) int {
	s, err := Load(db, fallback)
	if err != nil {
		return fallback
	}
	return s.CompletionThreshold
}

// UpdateThreshold sets the completion threshold, validating the range.
func UpdateThreshold(db *gorm.DB, threshold int) (Settings, error) {
	if threshold < 0 || threshold > 100 {
		return Settings{}, ErrInvalidThreshold
	}

	s, err := Load(db, threshold)
	if err != nil {
		return s, err
	}

	if err := db.Model(&s).Update("completion_threshold", threshold).Error; err != nil {
		return s, err
	}
	s.CompletionThreshold = threshold
	return s, nil
}
