package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/saulo-duarte/habit-tracker/timeutil"
)

// Service is the record store. Dates are normalized to start of day on
// every operation, so any two instants on the same calendar day address
// the same record. Not safe for concurrent callers.
type Service interface {
	// Toggle flips the completion state of the tracker on the given
	// day: an existing record is deleted, a missing one is created.
	// It returns the resulting state. Two consecutive toggles restore
	// the original state.
	Toggle(ctx context.Context, trackerID uuid.UUID, date time.Time) (completed bool, err error)
	Count(ctx context.Context, trackerID uuid.UUID) (int64, error)
	IsCompletedOn(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error)
	// RemoveAllForTracker is the cascade path invoked when the owning
	// tracker is deleted.
	RemoveAllForTracker(ctx context.Context, trackerID uuid.UUID) error
	TotalCount(ctx context.Context) (int64, error)
	CompletedTrackerIDs(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewService(repo Repository, log logrus.FieldLogger) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{repo: repo, log: log}
}

func (s *service) Toggle(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error) {
	day := timeutil.StartOfDay(date)

	existing, err := s.repo.FindByTrackerAndDate(trackerID, day)
	switch {
	case err == nil:
		if err := s.repo.DeleteByID(existing.ID); err != nil {
			s.log.WithError(err).Error("Failed to delete completion record")
			return true, fmt.Errorf("delete record: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"tracker_id": trackerID,
			"date":       day.Format(time.DateOnly),
		}).Info("Completion removed")
		return false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		rec := Record{TrackerID: trackerID, Date: day}
		if err := s.repo.Create(&rec); err != nil {
			s.log.WithError(err).Error("Failed to create completion record")
			return false, fmt.Errorf("create record: %w", err)
		}
		s.log.WithFields(logrus.Fields{
			"tracker_id": trackerID,
			"date":       day.Format(time.DateOnly),
		}).Info("Completion recorded")
		return true, nil

	default:
		s.log.WithError(err).Error("Failed to look up completion record")
		return false, fmt.Errorf("find record: %w", err)
	}
}

func (s *service) Count(ctx context.Context, trackerID uuid.UUID) (int64, error) {
	count, err := s.repo.CountByTracker(trackerID)
	if err != nil {
		s.log.WithError(err).Error("Failed to count completion records")
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (s *service) IsCompletedOn(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error) {
	_, err := s.repo.FindByTrackerAndDate(trackerID, timeutil.StartOfDay(date))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		s.log.WithError(err).Error("Failed to look up completion record")
		return false, fmt.Errorf("find record: %w", err)
	}
}

func (s *service) RemoveAllForTracker(ctx context.Context, trackerID uuid.UUID) error {
	if err := s.repo.DeleteByTracker(trackerID); err != nil {
		s.log.WithError(err).Error("Failed to delete tracker records")
		return fmt.Errorf("delete tracker records: %w", err)
	}
	s.log.WithField("tracker_id", trackerID).Info("Completion records removed")
	return nil
}

func (s *service) TotalCount(ctx context.Context) (int64, error) {
	count, err := s.repo.CountAll()
	if err != nil {
		s.log.WithError(err).Error("Failed to count completion records")
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (s *service) CompletedTrackerIDs(ctx context.Context, date time.Time) ([]uuid.UUID, error) {
	ids, err := s.repo.CompletedTrackerIDs(timeutil.StartOfDay(date))
	if err != nil {
		s.log.WithError(err).Error("Failed to list completed trackers")
		return nil, fmt.Errorf("list completed trackers: %w", err)
	}
	return ids, nil
}
