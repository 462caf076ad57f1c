package tracker

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/habit-tracker/weekday"
)

type Repository interface {
	Create(t *Tracker) error
	FindByID(id uuid.UUID) (*Tracker, error)
	Update(t *Tracker) error
	Delete(id uuid.UUID) error
	// ListApplicable returns trackers whose schedule is empty or
	// contains day, optionally narrowed by a case-insensitive title
	// substring, with categories preloaded.
	ListApplicable(titleQuery string, day weekday.Weekday) ([]Tracker, error)
	CountApplicable(titleQuery string, day weekday.Weekday) (int64, error)
	ListAll() ([]Tracker, error)
	Count() (int64, error)
	CountInCategory(categoryID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(t *Tracker) error {
	return r.db.Create(t).Error
}

func (r *repository) FindByID(id uuid.UUID) (*Tracker, error) {
	var t Tracker
	if err := r.db.Preload("Category").First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(t *Tracker) error {
	return r.db.Save(t).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Tracker{}, "id = ?", id).Error
}

// Weekday codes are single digits, so substring containment on the
// encoded schedule is an exact membership test.
func (r *repository) applicableQuery(titleQuery string, day weekday.Weekday) *gorm.DB {
	q := r.db.Model(&Tracker{}).
		Where("schedule LIKE ? OR schedule = ''", "%"+strconv.Itoa(int(day))+"%")
	if titleQuery != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleQuery)+"%")
	}
	return q
}

func (r *repository) ListApplicable(titleQuery string, day weekday.Weekday) ([]Tracker, error) {
	var trackers []Tracker
	if err := r.applicableQuery(titleQuery, day).
		Preload("Category").
		Find(&trackers).Error; err != nil {
		return nil, err
	}
	return trackers, nil
}

func (r *repository) CountApplicable(titleQuery string, day weekday.Weekday) (int64, error) {
	var count int64
	if err := r.applicableQuery(titleQuery, day).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListAll() ([]Tracker, error) {
	var trackers []Tracker
	if err := r.db.Preload("Category").Find(&trackers).Error; err != nil {
		return nil, err
	}
	return trackers, nil
}

func (r *repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&Tracker{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountInCategory(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&Tracker{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsNotFound reports whether err is the persistence layer's record-not-
// found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
