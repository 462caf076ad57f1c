package tracker

// Update describes the difference between two consecutive sectioned
// listings, emitted once per mutating operation. Row index slices carry
// item positions only; Moves carry full coordinates. An all-empty
// update means the dataset was replaced wholesale (a filter change) and
// consumers should reload rather than patch.
type Update struct {
	InsertedIndices  []int
	DeletedIndices   []int
	UpdatedIndices   []int
	Moves            []Move
	InsertedSections []int
	DeletedSections  []int
}

// Move relocates one tracker between positions, possibly across
// sections.
type Move struct {
	OldSection int
	OldIndex   int
	NewSection int
	NewIndex   int
}

// IsEmpty reports whether the update carries no changes, the full-
// reload marker.
func (u Update) IsEmpty() bool {
	return len(u.InsertedIndices) == 0 &&
		len(u.DeletedIndices) == 0 &&
		len(u.UpdatedIndices) == 0 &&
		len(u.Moves) == 0 &&
		len(u.InsertedSections) == 0 &&
		len(u.DeletedSections) == 0
}
