package category

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(c *Category) error
	FindByTitle(title string) (*Category, error)
	ExistsByTitle(title string) (bool, error)
	Update(c *Category) error
	Delete(id uint) error
	List() ([]Category, error)
	Count() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(c *Category) error {
	return r.db.Create(c).Error
}

func (r *repository) FindByTitle(title string) (*Category, error) {
	var c Category
	if err := r.db.First(&c, "title = ?", title).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ExistsByTitle(title string) (bool, error) {
	var count int64
	if err := r.db.Model(&Category{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(c *Category) error {
	return r.db.Save(c).Error
}

func (r *repository) Delete(id uint) error {
	return r.db.Delete(&Category{}, "id = ?", id).Error
}

func (r *repository) List() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("title ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsNotFound reports whether err is the persistence layer's record-not-
// found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
