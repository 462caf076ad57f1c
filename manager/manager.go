package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/saulo-duarte/habit-tracker/category"
	"github.com/saulo-duarte/habit-tracker/events"
	"github.com/saulo-duarte/habit-tracker/record"
	"github.com/saulo-duarte/habit-tracker/settings"
	"github.com/saulo-duarte/habit-tracker/stats"
	"github.com/saulo-duarte/habit-tracker/tracker"
)

// Manager composes the category, tracker and record stores behind a
// single access point. It seeds the default category on first launch
// and republishes store-level change signals as one unified
// data-changed signal, so UI code needs a single reference and a single
// subscription.
type Manager struct {
	categories category.Service
	trackers   tracker.Service
	records    record.Service
	stats      stats.Service
	settings   settings.Service

	bus         *events.Bus
	dataChanged *events.Signal[struct{}]
}

// New wires the stores over the shared db handle and seeds the default
// category if no category exists yet.
func New(db *gorm.DB, log logrus.FieldLogger) (*Manager, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	categoryRepo := category.NewRepository(db)
	trackerRepo := tracker.NewRepository(db)
	recordRepo := record.NewRepository(db)

	categories := category.NewService(categoryRepo, trackerRepo, log)
	records := record.NewService(recordRepo, log)
	trackers := tracker.NewService(trackerRepo, categories, recordRepo, log)
	settingsSvc := settings.NewService(db)
	statsSvc := stats.NewService(recordRepo, trackerRepo, settingsSvc, log)

	m := &Manager{
		categories:  categories,
		trackers:    trackers,
		records:     records,
		stats:       statsSvc,
		settings:    settingsSvc,
		bus:         events.NewBus(),
		dataChanged: events.NewSignal[struct{}](),
	}

	categories.Changed().Subscribe(func(struct{}) {
		m.bus.CategoriesChanged.Publish(struct{}{})
		m.dataChanged.Publish(struct{}{})
	})
	trackers.Updates().Subscribe(func(tracker.Update) {
		m.dataChanged.Publish(struct{}{})
	})

	if err := m.seedDefaultCategory(context.Background()); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) seedDefaultCategory(ctx context.Context) error {
	count, err := m.categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := m.categories.Create(ctx, category.DefaultTitle); err != nil {
		return fmt.Errorf("seed default category: %w", err)
	}
	return nil
}

// Categories exposes the category store.
func (m *Manager) Categories() category.Service { return m.categories }

// Trackers exposes the tracker store.
func (m *Manager) Trackers() tracker.Service { return m.trackers }

// Records exposes the record store.
func (m *Manager) Records() record.Service { return m.records }

// Settings exposes the persisted flags.
func (m *Manager) Settings() settings.Service { return m.settings }

// Bus exposes the app-wide broadcast signals.
func (m *Manager) Bus() *events.Bus { return m.bus }

// DataChanged fires after any category or tracker mutation.
func (m *Manager) DataChanged() *events.Signal[struct{}] { return m.dataChanged }

// Pass-through convenience surface.

func (m *Manager) CreateCategory(ctx context.Context, title string) (*category.Category, error) {
	return m.categories.Create(ctx, title)
}

func (m *Manager) RenameCategory(ctx context.Context, title, newTitle string) error {
	return m.categories.Rename(ctx, title, newTitle)
}

func (m *Manager) DeleteCategory(ctx context.Context, title string) error {
	return m.categories.Delete(ctx, title)
}

func (m *Manager) ListCategories(ctx context.Context) ([]category.Category, error) {
	return m.categories.List(ctx)
}

func (m *Manager) CreateTracker(ctx context.Context, input tracker.Input) (*tracker.Tracker, error) {
	return m.trackers.Create(ctx, input)
}

func (m *Manager) EditTracker(ctx context.Context, id uuid.UUID, input tracker.Input) error {
	return m.trackers.Edit(ctx, id, input)
}

func (m *Manager) DeleteTracker(ctx context.Context, id uuid.UUID) error {
	return m.trackers.Delete(ctx, id)
}

func (m *Manager) PinTracker(ctx context.Context, id uuid.UUID) error {
	return m.trackers.Pin(ctx, id)
}

func (m *Manager) UnpinTracker(ctx context.Context, id uuid.UUID) error {
	return m.trackers.Unpin(ctx, id)
}

func (m *Manager) ApplyFilter(ctx context.Context, f tracker.Filter) ([]tracker.Section, error) {
	return m.trackers.ApplyFilter(ctx, f)
}

func (m *Manager) Sections(ctx context.Context) ([]tracker.Section, error) {
	return m.trackers.Sections(ctx)
}

func (m *Manager) ToggleRecord(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error) {
	return m.records.Toggle(ctx, trackerID, date)
}

func (m *Manager) IsCompletedOn(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error) {
	return m.records.IsCompletedOn(ctx, trackerID, date)
}

func (m *Manager) RecordCount(ctx context.Context, trackerID uuid.UUID) (int64, error) {
	return m.records.Count(ctx, trackerID)
}

func (m *Manager) Statistics(ctx context.Context) (*stats.Statistics, error) {
	return m.stats.Compute(ctx)
}
