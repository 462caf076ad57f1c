package tracker

import "time"

// PinnedSectionTitle names the dedicated leading section that holds
// pinned trackers in sectioned listings.
const PinnedSectionTitle = "Pinned"

// CompletionFilter narrows a listing by completion state on the
// filter's date.
type CompletionFilter int

const (
	CompletionAll CompletionFilter = iota
	CompletionCompleted
	CompletionNotCompleted
)

// Filter configures the sectioned listing. A tracker matches when its
// schedule is empty or contains the weekday of Date, its title contains
// TitleQuery case-insensitively (empty query matches everything), and
// its completion state on Date satisfies Completion.
type Filter struct {
	TitleQuery string
	Date       time.Time
	Completion CompletionFilter
}

// Section is a group of trackers sharing a category title, or the
// pinned trackers under PinnedSectionTitle.
type Section struct {
	Title    string
	Trackers []Tracker
}
