package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, ref string) (*Booking, error)
	GetByClientID(ctx context.Context, clientID string, limit, offset int) ([]Booking, error)
	GetAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// UpdateStatusIfPending performs the single allowed terminal
	// transition as a conditional update. Returns false when the booking
	// was not pending, so concurrent resolutions cannot double-fire.
	UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, next Status, resolvedBy *uuid.UUID, now time.Time) (bool, error)

	// MarkExpiredIfDue expires one overdue pending booking. Returns true
	// only when this call performed the transition.
	MarkExpiredIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	// FindDueForExpiry lists pending bookings whose deadline has passed.
	FindDueForExpiry(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error)

	WithTransaction(fn func(tx *gorm.DB) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	// Seats persist with the booking in one transaction through the
	// association.
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("booking_ref = ?", ref).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByClientID(ctx context.Context, clientID string, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) GetAll(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Booking{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.TourID != "" {
		db = db.Where("tour_id = ?", query.TourID)
	}
	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(booking_ref) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Preload("Seats").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, id uuid.UUID, next Status, resolvedBy *uuid.UUID, now time.Time) (bool, error) {
	if !StatusPending.CanTransitionTo(next) {
		return false, fmt.Errorf("invalid booking transition to %s", next)
	}

	db := tx
	if db == nil {
		db = r.db
	}

	result := db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      string(next),
			"resolved_at": now,
			"resolved_by": resolvedBy,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) MarkExpiredIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ? AND expires_at <= ?", id, StatusPending, now).
		Updates(map[string]interface{}{
			"status":      string(StatusExpired),
			"resolved_at": now,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) FindDueForExpiry(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("status = ? AND expires_at <= ?", StatusPending, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var counts []statusCount
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for _, sc := range counts {
		result[sc.Status] = sc.Count
	}
	return result, nil
}

func (r *repository) CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("tour_id = ? AND status = ?", tourID, StatusApproved).
		Count(&count).Error
	return count, err
}

func (r *repository) WithTransaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
