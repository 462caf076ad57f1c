package category

import "time"

// DefaultTitle is the category auto-created on first launch and used as
// the fallback destination when a tracker references a category that no
// longer exists.
const DefaultTitle = "Important"

// MaxTitleLength bounds category titles, matching the input limit the
// creation form enforces.
const MaxTitleLength = 38

// Category is a named grouping of trackers, unique by title. The
// comparison is case-sensitive: "Health" and "health" are two distinct
// categories.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
