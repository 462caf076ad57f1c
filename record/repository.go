package record

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(rec *Record) error
	FindByTrackerAndDate(trackerID uuid.UUID, date time.Time) (*Record, error)
	DeleteByID(id uint) error
	DeleteByTracker(trackerID uuid.UUID) error
	CountByTracker(trackerID uuid.UUID) (int64, error)
	CountAll() (int64, error)
	ListAll() ([]Record, error)
	CompletedTrackerIDs(date time.Time) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(rec *Record) error {
	return r.db.Create(rec).Error
}

func (r *repository) FindByTrackerAndDate(trackerID uuid.UUID, date time.Time) (*Record, error) {
	var rec Record
	err := r.db.Where("tracker_id = ? AND date = ?", trackerID, date).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) DeleteByID(id uint) error {
	return r.db.Delete(&Record{}, "id = ?", id).Error
}

func (r *repository) DeleteByTracker(trackerID uuid.UUID) error {
	return r.db.Delete(&Record{}, "tracker_id = ?", trackerID).Error
}

func (r *repository) CountByTracker(trackerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&Record{}).Where("tracker_id = ?", trackerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&Record{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListAll() ([]Record, error) {
	var records []Record
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) CompletedTrackerIDs(date time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&Record{}).
		Where("date = ?", date).
		Distinct().
		Pluck("tracker_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
