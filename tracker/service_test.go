package tracker_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saulo-duarte/habit-tracker/category"
	"github.com/saulo-duarte/habit-tracker/config"
	"github.com/saulo-duarte/habit-tracker/record"
	"github.com/saulo-duarte/habit-tracker/tracker"
	"github.com/saulo-duarte/habit-tracker/weekday"
)

// 2024-01-01 was a Monday.
var (
	monday  = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

type fixture struct {
	trackers   tracker.Service
	categories category.Service
	records    record.Service
	db         *gorm.DB
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := config.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	log := testLogger()
	trackerRepo := tracker.NewRepository(db)
	recordRepo := record.NewRepository(db)
	categories := category.NewService(category.NewRepository(db), trackerRepo, log)

	return &fixture{
		trackers:   tracker.NewService(trackerRepo, categories, recordRepo, log),
		categories: categories,
		records:    record.NewService(recordRepo, log),
		db:         db,
	}
}

func (f *fixture) mustCategory(t *testing.T, title string) {
	t.Helper()
	_, err := f.categories.Create(context.Background(), title)
	require.NoError(t, err)
}

func (f *fixture) mustTracker(t *testing.T, title, categoryTitle string, days weekday.Set) *tracker.Tracker {
	t.Helper()
	tr, err := f.trackers.Create(context.Background(), tracker.Input{
		Title:         title,
		Emoji:         "🏃",
		ColorHex:      "#33CF69",
		Days:          days,
		CategoryTitle: categoryTitle,
	})
	require.NoError(t, err)
	return tr
}

func flatTitles(sections []tracker.Section) []string {
	var titles []string
	for _, s := range sections {
		for _, tr := range s.Trackers {
			titles = append(titles, tr.Title)
		}
	}
	return titles
}

func TestWeekdayApplicability(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")

	f.mustTracker(t, "Morning Run", "Habits", weekday.NewSet(weekday.Monday))
	f.mustTracker(t, "Call Parents", "Habits", weekday.NewSet())

	sections, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call Parents", "Morning Run"}, flatTitles(sections))

	sections, err = f.trackers.ApplyFilter(ctx, tracker.Filter{Date: tuesday})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call Parents"}, flatTitles(sections),
		"irregular events stay visible on every date")
}

func TestTitleSubstringFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")
	f.mustTracker(t, "Morning Run", "Habits", weekday.NewSet())

	sections, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, TitleQuery: "run"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Morning Run"}, flatTitles(sections))

	sections, err = f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, TitleQuery: "swim"})
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestCompletionFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")
	done := f.mustTracker(t, "Meditate", "Habits", weekday.NewSet())
	f.mustTracker(t, "Journal", "Habits", weekday.NewSet())

	_, err := f.records.Toggle(ctx, done.ID, monday)
	require.NoError(t, err)

	sections, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, Completion: tracker.CompletionCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"Meditate"}, flatTitles(sections))

	sections, err = f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, Completion: tracker.CompletionNotCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"Journal"}, flatTitles(sections))
}

func TestSectionsOrderingAndPinned(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Work")
	f.mustCategory(t, "Art")

	f.mustTracker(t, "Standup", "Work", weekday.NewSet())
	f.mustTracker(t, "Review", "Work", weekday.NewSet())
	sketch := f.mustTracker(t, "Sketch", "Art", weekday.NewSet())

	sections, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Art", sections[0].Title)
	assert.Equal(t, "Work", sections[1].Title)
	assert.Equal(t, "Review", sections[1].Trackers[0].Title)
	assert.Equal(t, "Standup", sections[1].Trackers[1].Title)

	require.NoError(t, f.trackers.Pin(ctx, sketch.ID))

	sections, err = f.trackers.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 2, "emptied category section disappears")
	assert.Equal(t, tracker.PinnedSectionTitle, sections[0].Title)
	assert.Equal(t, []string{"Sketch"}, []string{sections[0].Trackers[0].Title})
	assert.Equal(t, "Work", sections[1].Title)

	require.NoError(t, f.trackers.Unpin(ctx, sketch.ID))

	sections, err = f.trackers.Sections(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Art", sections[0].Title)
}

func TestCreateFallsBackToDefaultCategory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tr := f.mustTracker(t, "Water Plants", "No Such Category", weekday.NewSet())

	c, err := f.categories.Get(ctx, category.DefaultTitle)
	require.NoError(t, err)
	assert.Equal(t, c.ID, tr.CategoryID)
}

func TestEditReplacesAllAttributes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Old")
	f.mustCategory(t, "New")

	tr := f.mustTracker(t, "Stretch", "Old", weekday.NewSet(weekday.Monday))

	err := f.trackers.Edit(ctx, tr.ID, tracker.Input{
		Title:         "Long Stretch",
		Emoji:         "🧘",
		ColorHex:      "#AD56DA",
		Days:          weekday.NewSet(weekday.Tuesday, weekday.Thursday),
		CategoryTitle: "New",
	})
	require.NoError(t, err)

	sections, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: tuesday})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "New", sections[0].Title)

	got := sections[0].Trackers[0]
	assert.Equal(t, "Long Stretch", got.Title)
	assert.Equal(t, "🧘", got.Emoji)
	assert.Equal(t, "#AD56DA", got.ColorHex)
	assert.True(t, got.Weekdays().Equal(weekday.NewSet(weekday.Tuesday, weekday.Thursday)))

	t.Run("UnknownCategoryRejected", func(t *testing.T) {
		err := f.trackers.Edit(ctx, tr.ID, tracker.Input{Title: "x", CategoryTitle: "Missing"})
		assert.ErrorIs(t, err, tracker.ErrCategoryNotFound)
	})

	t.Run("UnknownTrackerRejected", func(t *testing.T) {
		err := f.trackers.Edit(ctx, uuid.New(), tracker.Input{Title: "x", CategoryTitle: "New"})
		assert.ErrorIs(t, err, tracker.ErrTrackerNotFound)
	})
}

func TestDeleteCascadesRecords(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")
	tr := f.mustTracker(t, "Run", "Habits", weekday.NewSet())

	_, err := f.records.Toggle(ctx, tr.ID, monday)
	require.NoError(t, err)
	_, err = f.records.Toggle(ctx, tr.ID, tuesday)
	require.NoError(t, err)

	require.NoError(t, f.trackers.Delete(ctx, tr.ID))

	count, err := f.records.Count(ctx, tr.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, f.trackers.Delete(ctx, tr.ID), tracker.ErrTrackerNotFound)
}

func TestCountForDateIgnoresCompletionFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")
	tr := f.mustTracker(t, "Run", "Habits", weekday.NewSet(weekday.Monday))

	_, err := f.records.Toggle(ctx, tr.ID, monday)
	require.NoError(t, err)

	_, err = f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, Completion: tracker.CompletionNotCompleted})
	require.NoError(t, err)

	count, err := f.trackers.CountForDate(ctx, "", monday)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = f.trackers.CountForDate(ctx, "", tuesday)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUpdateDiffs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")

	_, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday})
	require.NoError(t, err)

	var updates []tracker.Update
	f.trackers.Updates().Subscribe(func(u tracker.Update) { updates = append(updates, u) })

	tr := f.mustTracker(t, "Run", "Habits", weekday.NewSet())
	require.Len(t, updates, 1)
	assert.Equal(t, []int{0}, updates[0].InsertedIndices)
	assert.Equal(t, []int{0}, updates[0].InsertedSections)

	require.NoError(t, f.trackers.Edit(ctx, tr.ID, tracker.Input{
		Title:         "Long Run",
		CategoryTitle: "Habits",
	}))
	require.Len(t, updates, 2)
	assert.Equal(t, []int{0}, updates[1].UpdatedIndices)
	assert.Empty(t, updates[1].InsertedSections)

	require.NoError(t, f.trackers.Delete(ctx, tr.ID))
	require.Len(t, updates, 3)
	assert.Equal(t, []int{0}, updates[2].DeletedIndices)
	assert.Equal(t, []int{0}, updates[2].DeletedSections)
}

func TestApplyFilterPublishesFullReload(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Habits")
	f.mustTracker(t, "Run", "Habits", weekday.NewSet())

	var updates []tracker.Update
	f.trackers.Updates().Subscribe(func(u tracker.Update) { updates = append(updates, u) })

	_, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday, TitleQuery: "run"})
	require.NoError(t, err)

	require.Len(t, updates, 1)
	assert.True(t, updates[0].IsEmpty(), "a filter change signals a full reload")
}

func TestMoveAcrossSections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCategory(t, "Art")
	f.mustCategory(t, "Work")

	f.mustTracker(t, "Sketch", "Art", weekday.NewSet())
	f.mustTracker(t, "Standup", "Work", weekday.NewSet())
	moved := f.mustTracker(t, "Review", "Work", weekday.NewSet())

	_, err := f.trackers.ApplyFilter(ctx, tracker.Filter{Date: monday})
	require.NoError(t, err)

	var updates []tracker.Update
	f.trackers.Updates().Subscribe(func(u tracker.Update) { updates = append(updates, u) })

	// Art gains the tracker, Work keeps one: both sections survive, the
	// row moves from Work (section 1) to Art (section 0).
	require.NoError(t, f.trackers.Edit(ctx, moved.ID, tracker.Input{
		Title:         "Review",
		CategoryTitle: "Art",
	}))

	require.Len(t, updates, 1)
	// Neighbours shift too: Sketch yields index 0 of Art, Standup moves
	// up inside Work.
	require.Len(t, updates[0].Moves, 3)
	assert.Equal(t, tracker.Move{OldSection: 1, OldIndex: 0, NewSection: 0, NewIndex: 0}, updates[0].Moves[0])
	assert.Equal(t, tracker.Move{OldSection: 0, OldIndex: 0, NewSection: 0, NewIndex: 1}, updates[0].Moves[1])
	assert.Equal(t, tracker.Move{OldSection: 1, OldIndex: 1, NewSection: 1, NewIndex: 0}, updates[0].Moves[2])
}
