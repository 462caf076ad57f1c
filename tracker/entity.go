package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/habit-tracker/category"
	"github.com/saulo-duarte/habit-tracker/weekday"
)

// Tracker is a user-defined habit or one-off event. The schedule is
// persisted as space-separated weekday codes; an empty string marks an
// irregular event that is applicable on any date.
type Tracker struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string    `gorm:"not null"`
	Emoji      string
	ColorHex   string
	Schedule   string
	Pinned     bool              `gorm:"default:false"`
	CategoryID uint              `gorm:"index;not null"`
	Category   category.Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Weekdays decodes the persisted schedule.
func (t *Tracker) Weekdays() weekday.Set {
	return weekday.Decode(t.Schedule)
}

// SetWeekdays replaces the persisted schedule.
func (t *Tracker) SetWeekdays(s weekday.Set) {
	t.Schedule = weekday.Encode(s)
}

// IsIrregular reports whether the tracker has no weekday schedule.
func (t *Tracker) IsIrregular() bool {
	return t.Schedule == ""
}
