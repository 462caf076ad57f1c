package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys of the persisted flags and cached counters.
const (
	KeyOnboardingCompleted = "isOnboardingCompleted"
	KeyBestPeriod          = "bestPeriod"
	KeyIdealDays           = "idealDays"
	KeyAveragePerDay       = "averageDays"
	KeyCompletedTrackers   = "completedTrackers"
)

// Setting is a single persisted key/value pair.
type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Service stores small app-level flags and counters, the local-settings
// analogue of the stores. Missing keys read as zero values.
type Service interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	GetInt(ctx context.Context, key string) (int, error)
	SetInt(ctx context.Context, key string, value int) error

	IsOnboardingCompleted(ctx context.Context) (bool, error)
	SetOnboardingCompleted(ctx context.Context, done bool) error
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) get(key string) (string, bool, error) {
	var setting Setting
	err := s.db.First(&setting, "key = ?", key).Error
	switch {
	case err == nil:
		return setting.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
}

func (s *service) set(key, value string) error {
	setting := Setting{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

func (s *service) GetBool(ctx context.Context, key string) (bool, error) {
	value, ok, err := s.get(key)
	if err != nil || !ok {
		return false, err
	}
	return value == "true", nil
}

func (s *service) SetBool(ctx context.Context, key string, value bool) error {
	return s.set(key, strconv.FormatBool(value))
}

func (s *service) GetInt(ctx context.Context, key string) (int, error) {
	value, ok, err := s.get(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *service) SetInt(ctx context.Context, key string, value int) error {
	return s.set(key, strconv.Itoa(value))
}

func (s *service) IsOnboardingCompleted(ctx context.Context) (bool, error) {
	return s.GetBool(ctx, KeyOnboardingCompleted)
}

func (s *service) SetOnboardingCompleted(ctx context.Context, done bool) error {
	return s.SetBool(ctx, KeyOnboardingCompleted, done)
}
