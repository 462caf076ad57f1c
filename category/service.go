package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/habit-tracker/events"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("category name already in use")
	ErrCategoryInUse    = errors.New("category still has trackers")
	ErrInvalidTitle     = errors.New("category title is empty or too long")
)

// TrackerCounter reports how many trackers reference a category. The
// manager wires the tracker repository here; deleting a non-empty
// category is rejected so no tracker is ever left without one.
type TrackerCounter interface {
	CountInCategory(categoryID uint) (int64, error)
}

// Service is the category store. Not safe for concurrent callers; all
// access is expected to originate from a single goroutine.
type Service interface {
	Create(ctx context.Context, title string) (*Category, error)
	Rename(ctx context.Context, title, newTitle string) error
	Delete(ctx context.Context, title string) error
	Get(ctx context.Context, title string) (*Category, error)
	Exists(ctx context.Context, title string) (bool, error)
	List(ctx context.Context) ([]Category, error)
	Count(ctx context.Context) (int64, error)

	// Changed fires after every successful mutation.
	Changed() *events.Signal[struct{}]
}

type service struct {
	repo     Repository
	trackers TrackerCounter
	log      logrus.FieldLogger
	changed  *events.Signal[struct{}]
}

// NewService builds the category store. trackers may be nil, in which
// case the in-use check on Delete is skipped and reassigning member
// trackers is the caller's responsibility.
func NewService(repo Repository, trackers TrackerCounter, log logrus.FieldLogger) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{
		repo:     repo,
		trackers: trackers,
		log:      log,
		changed:  events.NewSignal[struct{}](),
	}
}

func (s *service) Changed() *events.Signal[struct{}] {
	return s.changed
}

func validateTitle(title string) error {
	if title == "" || len([]rune(title)) > MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func (s *service) Create(ctx context.Context, title string) (*Category, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByTitle(title)
	if err != nil {
		s.log.WithError(err).Error("Failed to check category name")
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return nil, ErrDuplicateName
	}

	c := Category{Title: title}
	if err := s.repo.Create(&c); err != nil {
		s.log.WithError(err).Error("Failed to create category")
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.WithField("category", c.Title).Info("Category created")
	s.changed.Publish(struct{}{})
	return &c, nil
}

func (s *service) Rename(ctx context.Context, title, newTitle string) error {
	if err := validateTitle(newTitle); err != nil {
		return err
	}

	c, err := s.repo.FindByTitle(title)
	if err != nil {
		if IsNotFound(err) {
			return ErrCategoryNotFound
		}
		s.log.WithError(err).Error("Failed to find category for rename")
		return fmt.Errorf("find category: %w", err)
	}

	if newTitle == c.Title {
		return nil
	}

	taken, err := s.repo.ExistsByTitle(newTitle)
	if err != nil {
		s.log.WithError(err).Error("Failed to check category name")
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return ErrDuplicateName
	}

	c.Title = newTitle
	if err := s.repo.Update(c); err != nil {
		s.log.WithError(err).Error("Failed to rename category")
		return fmt.Errorf("rename category: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"category": title,
		"new_name": newTitle,
	}).Info("Category renamed")
	s.changed.Publish(struct{}{})
	return nil
}

func (s *service) Delete(ctx context.Context, title string) error {
	c, err := s.repo.FindByTitle(title)
	if err != nil {
		if IsNotFound(err) {
			return ErrCategoryNotFound
		}
		s.log.WithError(err).Error("Failed to find category for deletion")
		return fmt.Errorf("find category: %w", err)
	}

	if s.trackers != nil {
		count, err := s.trackers.CountInCategory(c.ID)
		if err != nil {
			s.log.WithError(err).Error("Failed to count trackers in category")
			return fmt.Errorf("count trackers in category: %w", err)
		}
		if count > 0 {
			return ErrCategoryInUse
		}
	}

	if err := s.repo.Delete(c.ID); err != nil {
		s.log.WithError(err).Error("Failed to delete category")
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.WithField("category", title).Info("Category deleted")
	s.changed.Publish(struct{}{})
	return nil
}

func (s *service) Get(ctx context.Context, title string) (*Category, error) {
	c, err := s.repo.FindByTitle(title)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		s.log.WithError(err).Error("Failed to find category")
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (s *service) Exists(ctx context.Context, title string) (bool, error) {
	taken, err := s.repo.ExistsByTitle(title)
	if err != nil {
		s.log.WithError(err).Error("Failed to check category name")
		return false, fmt.Errorf("check category name: %w", err)
	}
	return taken, nil
}

func (s *service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List()
	if err != nil {
		s.log.WithError(err).Error("Failed to list categories")
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count()
	if err != nil {
		s.log.WithError(err).Error("Failed to count categories")
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
