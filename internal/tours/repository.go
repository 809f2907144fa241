package tours

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(tour *Tour) error
	GetByID(id uuid.UUID) (*Tour, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Tour, error)
	Delete(id uuid.UUID) error
	GetAll(query TourListQuery) ([]Tour, int64, error)
	GetByStatus(status Status) ([]Tour, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(tour *Tour) error {
	return r.db.Create(tour).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Tour, error) {
	var tour Tour
	err := r.db.Where("id = ?", id).First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Tour, error) {
	var tour Tour

	if err := r.db.Where("id = ?", id).First(&tour).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&tour).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&tour).Error; err != nil {
		return nil, err
	}

	return &tour, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Tour{}).Error
}

func (r *repository) GetAll(query TourListQuery) ([]Tour, int64, error) {
	var tours []Tour
	var totalCount int64

	db := r.db.Model(&Tour{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(from_city) LIKE ? OR LOWER(to_city) LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm)
	}

	if query.FromCity != "" {
		db = db.Where("LOWER(from_city) LIKE ?", "%"+strings.ToLower(query.FromCity)+"%")
	}

	if query.ToCity != "" {
		db = db.Where("LOWER(to_city) LIKE ?", "%"+strings.ToLower(query.ToCity)+"%")
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("start_date >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			// Include the whole final day
			dateTo = dateTo.Add(24 * time.Hour)
			db = db.Where("start_date < ?", dateTo)
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("start_date ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&tours).Error

	return tours, totalCount, err
}

func (r *repository) GetByStatus(status Status) ([]Tour, error) {
	var tours []Tour
	err := r.db.Where("status = ?", status).Order("start_date ASC").Find(&tours).Error
	return tours, err
}
