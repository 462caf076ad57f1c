package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/habit-tracker/record"
	"github.com/saulo-duarte/habit-tracker/settings"
	"github.com/saulo-duarte/habit-tracker/timeutil"
	"github.com/saulo-duarte/habit-tracker/tracker"
	"github.com/saulo-duarte/habit-tracker/weekday"
)

// Statistics aggregates completion history across all trackers.
type Statistics struct {
	// CompletedTrackers is the total number of completion records.
	CompletedTrackers int
	// BestPeriod is the longest run of consecutive completed days of
	// any single tracker.
	BestPeriod int
	// IdealDays counts the days on which every tracker scheduled for
	// that weekday was completed.
	IdealDays int
	// AveragePerDay is the number of completions divided by the number
	// of distinct days with at least one completion, rounded.
	AveragePerDay int
}

// IsEmpty reports whether nothing has been tracked yet.
func (s Statistics) IsEmpty() bool {
	return s.CompletedTrackers == 0 && s.BestPeriod == 0 && s.IdealDays == 0 && s.AveragePerDay == 0
}

type Service interface {
	// Compute derives statistics from the record and tracker stores and
	// caches the counters through the settings store.
	Compute(ctx context.Context) (*Statistics, error)
}

type service struct {
	records  record.Repository
	trackers tracker.Repository
	settings settings.Service
	log      logrus.FieldLogger
}

// NewService builds the statistics service. settings may be nil to skip
// counter caching.
func NewService(records record.Repository, trackers tracker.Repository, settings settings.Service, log logrus.FieldLogger) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{records: records, trackers: trackers, settings: settings, log: log}
}

func (s *service) Compute(ctx context.Context) (*Statistics, error) {
	records, err := s.records.ListAll()
	if err != nil {
		s.log.WithError(err).Error("Failed to load records for statistics")
		return nil, fmt.Errorf("load records: %w", err)
	}
	trackers, err := s.trackers.ListAll()
	if err != nil {
		s.log.WithError(err).Error("Failed to load trackers for statistics")
		return nil, fmt.Errorf("load trackers: %w", err)
	}

	result := &Statistics{
		CompletedTrackers: len(records),
		BestPeriod:        bestPeriod(records),
		IdealDays:         idealDays(records, trackers),
		AveragePerDay:     averagePerDay(records),
	}

	s.cache(ctx, result)
	return result, nil
}

func (s *service) cache(ctx context.Context, result *Statistics) {
	if s.settings == nil {
		return
	}
	counters := map[string]int{
		settings.KeyCompletedTrackers: result.CompletedTrackers,
		settings.KeyBestPeriod:        result.BestPeriod,
		settings.KeyIdealDays:         result.IdealDays,
		settings.KeyAveragePerDay:     result.AveragePerDay,
	}
	for key, value := range counters {
		if err := s.settings.SetInt(ctx, key, value); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("Failed to cache statistic")
		}
	}
}

// bestPeriod finds the longest streak of consecutive days on which a
// single tracker was completed.
func bestPeriod(records []record.Record) int {
	perTracker := make(map[uuid.UUID]map[time.Time]struct{})
	for _, rec := range records {
		day := timeutil.StartOfDay(rec.Date)
		if perTracker[rec.TrackerID] == nil {
			perTracker[rec.TrackerID] = make(map[time.Time]struct{})
		}
		perTracker[rec.TrackerID][day] = struct{}{}
	}

	best := 0
	for _, days := range perTracker {
		for day := range days {
			if _, hasPrev := days[day.AddDate(0, 0, -1)]; hasPrev {
				continue // not a streak start
			}
			length := 1
			for next := day.AddDate(0, 0, 1); ; next = next.AddDate(0, 0, 1) {
				if _, ok := days[next]; !ok {
					break
				}
				length++
			}
			if length > best {
				best = length
			}
		}
	}
	return best
}

// idealDays counts days where every tracker scheduled for that weekday
// has a completion record. Days with no scheduled tracker do not count;
// irregular trackers do not participate.
func idealDays(records []record.Record, trackers []tracker.Tracker) int {
	byDay := make(map[time.Time]map[uuid.UUID]struct{})
	for _, rec := range records {
		day := timeutil.StartOfDay(rec.Date)
		if byDay[day] == nil {
			byDay[day] = make(map[uuid.UUID]struct{})
		}
		byDay[day][rec.TrackerID] = struct{}{}
	}

	scheduled := make(map[weekday.Weekday][]uuid.UUID)
	for _, t := range trackers {
		days := t.Weekdays()
		for _, d := range days.Days() {
			scheduled[d] = append(scheduled[d], t.ID)
		}
	}

	ideal := 0
	for day, completed := range byDay {
		due := scheduled[weekday.FromTime(day)]
		if len(due) == 0 {
			continue
		}
		allDone := true
		for _, id := range due {
			if _, ok := completed[id]; !ok {
				allDone = false
				break
			}
		}
		if allDone {
			ideal++
		}
	}
	return ideal
}

func averagePerDay(records []record.Record) int {
	if len(records) == 0 {
		return 0
	}
	days := make(map[time.Time]struct{})
	for _, rec := range records {
		days[timeutil.StartOfDay(rec.Date)] = struct{}{}
	}
	return int(math.Round(float64(len(records)) / float64(len(days))))
}
