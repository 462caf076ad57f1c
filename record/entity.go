package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/habit-tracker/tracker"
)

// Record is evidence that a tracker was completed on a specific
// calendar day. Date is always normalized to start of day. At most one
// record exists per (tracker, day) pair; the toggle operation enforces
// this by querying before inserting, there is deliberately no unique
// index.
type Record struct {
	ID        uint            `gorm:"primaryKey"`
	TrackerID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tracker   tracker.Tracker `gorm:"foreignKey:TrackerID;constraint:OnDelete:CASCADE"`
	Date      time.Time       `gorm:"index;not null"`
	CreatedAt time.Time
}
