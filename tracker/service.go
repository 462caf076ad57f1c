package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/habit-tracker/category"
	"github.com/saulo-duarte/habit-tracker/events"
	"github.com/saulo-duarte/habit-tracker/timeutil"
	"github.com/saulo-duarte/habit-tracker/weekday"
)

var (
	ErrTrackerNotFound  = errors.New("tracker not found")
	ErrCategoryNotFound = category.ErrCategoryNotFound
)

// Input carries the full attribute set of a tracker. Edit replaces
// every attribute; there is no partial patch.
type Input struct {
	Title         string
	Emoji         string
	ColorHex      string
	Days          weekday.Set
	CategoryTitle string
}

// RecordSource is the slice of the record store the tracker store
// needs: completion lookups for filtered listings and the cascade path
// on tracker deletion. The manager wires the record repository here.
type RecordSource interface {
	CompletedTrackerIDs(date time.Time) ([]uuid.UUID, error)
	DeleteByTracker(trackerID uuid.UUID) error
}

// Service is the tracker store. It keeps the active filter and the last
// delivered sectioned listing so every mutation can be described as a
// structured diff. Not safe for concurrent callers.
type Service interface {
	Create(ctx context.Context, input Input) (*Tracker, error)
	Edit(ctx context.Context, id uuid.UUID, input Input) error
	Delete(ctx context.Context, id uuid.UUID) error
	Pin(ctx context.Context, id uuid.UUID) error
	Unpin(ctx context.Context, id uuid.UUID) error

	// ApplyFilter replaces the active filter, publishes an all-empty
	// update (full reload) and returns the new listing.
	ApplyFilter(ctx context.Context, f Filter) ([]Section, error)
	// Sections returns the listing for the active filter.
	Sections(ctx context.Context) ([]Section, error)
	Filter() Filter

	CountAll(ctx context.Context) (int64, error)
	// CountForDate counts trackers applicable on date regardless of the
	// active completion filter, so callers can tell "nothing exists"
	// from "everything is filtered out".
	CountForDate(ctx context.Context, titleQuery string, date time.Time) (int64, error)

	// Updates fires once per mutating operation that changed the
	// visible listing.
	Updates() *events.Signal[Update]
}

type service struct {
	repo       Repository
	categories category.Service
	records    RecordSource
	log        logrus.FieldLogger
	updates    *events.Signal[Update]

	filter Filter
	last   []Section
}

func NewService(repo Repository, categories category.Service, records RecordSource, log logrus.FieldLogger) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{
		repo:       repo,
		categories: categories,
		records:    records,
		log:        log,
		updates:    events.NewSignal[Update](),
		filter:     Filter{Date: time.Now()},
	}
}

func (s *service) Updates() *events.Signal[Update] {
	return s.updates
}

func (s *service) Filter() Filter {
	return s.filter
}

// resolveCategoryForCreate resolves the target category, recovering
// from a missing one by ensuring the default category exists and
// retrying the lookup exactly once.
func (s *service) resolveCategoryForCreate(ctx context.Context, title string) (*category.Category, error) {
	c, err := s.categories.Get(ctx, title)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, category.ErrCategoryNotFound) {
		return nil, err
	}

	s.log.WithField("category", title).Warn("Category missing on tracker creation, falling back to default")

	if _, err := s.categories.Create(ctx, category.DefaultTitle); err != nil && !errors.Is(err, category.ErrDuplicateName) {
		return nil, err
	}
	return s.categories.Get(ctx, category.DefaultTitle)
}

func (s *service) Create(ctx context.Context, input Input) (*Tracker, error) {
	c, err := s.resolveCategoryForCreate(ctx, input.CategoryTitle)
	if err != nil {
		s.log.WithError(err).Error("Failed to resolve category for new tracker")
		return nil, err
	}

	t := Tracker{
		ID:         uuid.New(),
		Title:      input.Title,
		Emoji:      input.Emoji,
		ColorHex:   input.ColorHex,
		Schedule:   weekday.Encode(input.Days),
		CategoryID: c.ID,
	}

	if err := s.repo.Create(&t); err != nil {
		s.log.WithError(err).Error("Failed to create tracker")
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"tracker_id": t.ID,
		"category":   c.Title,
	}).Info("Tracker created")

	s.publishDiff(ctx)
	return &t, nil
}

func (s *service) Edit(ctx context.Context, id uuid.UUID, input Input) error {
	t, err := s.repo.FindByID(id)
	if err != nil {
		if IsNotFound(err) {
			return ErrTrackerNotFound
		}
		s.log.WithError(err).Error("Failed to find tracker for edit")
		return fmt.Errorf("find tracker: %w", err)
	}

	c, err := s.categories.Get(ctx, input.CategoryTitle)
	if err != nil {
		s.log.WithError(err).WithField("category", input.CategoryTitle).Error("Failed to resolve category for edit")
		return err
	}

	t.Title = input.Title
	t.Emoji = input.Emoji
	t.ColorHex = input.ColorHex
	t.Schedule = weekday.Encode(input.Days)
	t.CategoryID = c.ID
	t.Category = *c

	if err := s.repo.Update(t); err != nil {
		s.log.WithError(err).Error("Failed to update tracker")
		return fmt.Errorf("update tracker: %w", err)
	}

	s.log.WithField("tracker_id", id).Info("Tracker updated")
	s.publishDiff(ctx)
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(id); err != nil {
		if IsNotFound(err) {
			return ErrTrackerNotFound
		}
		s.log.WithError(err).Error("Failed to find tracker for deletion")
		return fmt.Errorf("find tracker: %w", err)
	}

	if err := s.records.DeleteByTracker(id); err != nil {
		s.log.WithError(err).Error("Failed to delete tracker records")
		return fmt.Errorf("delete tracker records: %w", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.log.WithError(err).Error("Failed to delete tracker")
		return fmt.Errorf("delete tracker: %w", err)
	}

	s.log.WithField("tracker_id", id).Info("Tracker deleted")
	s.publishDiff(ctx)
	return nil
}

func (s *service) Pin(ctx context.Context, id uuid.UUID) error {
	return s.setPinned(ctx, id, true)
}

func (s *service) Unpin(ctx context.Context, id uuid.UUID) error {
	return s.setPinned(ctx, id, false)
}

func (s *service) setPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	t, err := s.repo.FindByID(id)
	if err != nil {
		if IsNotFound(err) {
			return ErrTrackerNotFound
		}
		s.log.WithError(err).Error("Failed to find tracker for pinning")
		return fmt.Errorf("find tracker: %w", err)
	}

	if t.Pinned == pinned {
		return nil
	}

	t.Pinned = pinned
	if err := s.repo.Update(t); err != nil {
		s.log.WithError(err).Error("Failed to change tracker pin state")
		return fmt.Errorf("update tracker: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"tracker_id": id,
		"pinned":     pinned,
	}).Info("Tracker pin state changed")
	s.publishDiff(ctx)
	return nil
}

func (s *service) ApplyFilter(ctx context.Context, f Filter) ([]Section, error) {
	s.filter = f

	sections, err := s.fetchSections(ctx)
	if err != nil {
		return nil, err
	}
	s.last = sections

	// A filter change replaces the dataset wholesale; consumers reload.
	s.updates.Publish(Update{})
	return sections, nil
}

func (s *service) Sections(ctx context.Context) ([]Section, error) {
	sections, err := s.fetchSections(ctx)
	if err != nil {
		return nil, err
	}
	s.last = sections
	return sections, nil
}

func (s *service) CountAll(ctx context.Context) (int64, error) {
	count, err := s.repo.Count()
	if err != nil {
		s.log.WithError(err).Error("Failed to count trackers")
		return 0, fmt.Errorf("count trackers: %w", err)
	}
	return count, nil
}

func (s *service) CountForDate(ctx context.Context, titleQuery string, date time.Time) (int64, error) {
	count, err := s.repo.CountApplicable(titleQuery, weekday.FromTime(date))
	if err != nil {
		s.log.WithError(err).Error("Failed to count applicable trackers")
		return 0, fmt.Errorf("count applicable trackers: %w", err)
	}
	return count, nil
}

func (s *service) fetchSections(ctx context.Context) ([]Section, error) {
	trackers, err := s.repo.ListApplicable(s.filter.TitleQuery, weekday.FromTime(s.filter.Date))
	if err != nil {
		s.log.WithError(err).Error("Failed to list trackers")
		return nil, fmt.Errorf("list trackers: %w", err)
	}

	if s.filter.Completion != CompletionAll {
		trackers, err = s.applyCompletionFilter(trackers)
		if err != nil {
			return nil, err
		}
	}

	return buildSections(trackers), nil
}

func (s *service) applyCompletionFilter(trackers []Tracker) ([]Tracker, error) {
	ids, err := s.records.CompletedTrackerIDs(timeutil.StartOfDay(s.filter.Date))
	if err != nil {
		s.log.WithError(err).Error("Failed to load completions for filter")
		return nil, fmt.Errorf("load completions: %w", err)
	}

	completed := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}

	wantCompleted := s.filter.Completion == CompletionCompleted
	filtered := trackers[:0]
	for _, t := range trackers {
		if completed[t.ID] == wantCompleted {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// buildSections groups trackers into the pinned leading section
// followed by one section per category, ordered by category title.
// A pinned tracker appears only in the pinned section.
func buildSections(trackers []Tracker) []Section {
	var pinned []Tracker
	byCategory := make(map[string][]Tracker)

	for _, t := range trackers {
		if t.Pinned {
			pinned = append(pinned, t)
			continue
		}
		byCategory[t.Category.Title] = append(byCategory[t.Category.Title], t)
	}

	titles := make([]string, 0, len(byCategory))
	for title := range byCategory {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	sections := make([]Section, 0, len(titles)+1)
	if len(pinned) > 0 {
		sortByTitle(pinned)
		sections = append(sections, Section{Title: PinnedSectionTitle, Trackers: pinned})
	}
	for _, title := range titles {
		group := byCategory[title]
		sortByTitle(group)
		sections = append(sections, Section{Title: title, Trackers: group})
	}
	return sections
}

func sortByTitle(trackers []Tracker) {
	sort.Slice(trackers, func(i, j int) bool {
		if trackers[i].Title != trackers[j].Title {
			return trackers[i].Title < trackers[j].Title
		}
		return trackers[i].ID.String() < trackers[j].ID.String()
	})
}

// publishDiff recomputes the listing for the active filter, diffs it
// against the last delivered one and publishes the result. Mutations
// that do not change the visible listing publish nothing.
func (s *service) publishDiff(ctx context.Context) {
	sections, err := s.fetchSections(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to refresh listing after mutation")
		return
	}

	update := diffSections(s.last, sections)
	s.last = sections

	if !update.IsEmpty() {
		s.updates.Publish(update)
	}
}
