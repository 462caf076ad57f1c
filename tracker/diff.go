package tracker

import (
	"sort"

	"github.com/google/uuid"
)

type position struct {
	section int
	index   int
}

type row struct {
	pos position
	t   Tracker
}

func indexRows(sections []Section) map[uuid.UUID]row {
	rows := make(map[uuid.UUID]row)
	for si, section := range sections {
		for ti, t := range section.Trackers {
			rows[t.ID] = row{pos: position{section: si, index: ti}, t: t}
		}
	}
	return rows
}

func sameAttributes(a, b Tracker) bool {
	return a.Title == b.Title &&
		a.Emoji == b.Emoji &&
		a.ColorHex == b.ColorHex &&
		a.Schedule == b.Schedule &&
		a.Pinned == b.Pinned &&
		a.CategoryID == b.CategoryID
}

// diffSections compares two sectioned listings and describes the
// transition from old to new. Rows present only in new are insertions,
// rows present only in old are deletions, rows whose position changed
// are moves and rows that stayed put with changed attributes are
// updates. Sections are matched by title.
func diffSections(old, new []Section) Update {
	oldRows := indexRows(old)
	newRows := indexRows(new)

	var update Update

	oldSections := make(map[string]int, len(old))
	for i, section := range old {
		oldSections[section.Title] = i
	}
	newSections := make(map[string]int, len(new))
	for i, section := range new {
		newSections[section.Title] = i
	}

	for i, section := range new {
		if _, ok := oldSections[section.Title]; !ok {
			update.InsertedSections = append(update.InsertedSections, i)
		}
	}
	for i, section := range old {
		if _, ok := newSections[section.Title]; !ok {
			update.DeletedSections = append(update.DeletedSections, i)
		}
	}

	for id, newRow := range newRows {
		oldRow, existed := oldRows[id]
		switch {
		case !existed:
			update.InsertedIndices = append(update.InsertedIndices, newRow.pos.index)
		case oldRow.pos != newRow.pos:
			update.Moves = append(update.Moves, Move{
				OldSection: oldRow.pos.section,
				OldIndex:   oldRow.pos.index,
				NewSection: newRow.pos.section,
				NewIndex:   newRow.pos.index,
			})
		case !sameAttributes(oldRow.t, newRow.t):
			update.UpdatedIndices = append(update.UpdatedIndices, newRow.pos.index)
		}
	}
	for id, oldRow := range oldRows {
		if _, remains := newRows[id]; !remains {
			update.DeletedIndices = append(update.DeletedIndices, oldRow.pos.index)
		}
	}

	sort.Ints(update.InsertedIndices)
	sort.Ints(update.DeletedIndices)
	sort.Ints(update.UpdatedIndices)
	sort.Ints(update.InsertedSections)
	sort.Ints(update.DeletedSections)
	sort.Slice(update.Moves, func(i, j int) bool {
		a, b := update.Moves[i], update.Moves[j]
		if a.NewSection != b.NewSection {
			return a.NewSection < b.NewSection
		}
		return a.NewIndex < b.NewIndex
	})

	return update
}
