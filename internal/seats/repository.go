package seats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// BookedSeatMap returns seatID -> clientID for the permanent claims
	// of one bus, straight from Postgres.
	BookedSeatMap(ctx context.Context, tourID, busID string) (map[string]string, error)

	// CreateBookedSeats persists permanent claims inside tx. The unique
	// index on (tour_id, bus_id, seat_id) turns a double-finalize into a
	// SeatConflictError instead of a duplicate row.
	CreateBookedSeats(ctx context.Context, tx *gorm.DB, seats []BookedSeat) error

	// DeleteByBookingID removes the permanent claims of one booking.
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error

	// CountByTour returns the number of permanently booked seats on a tour.
	CountByTour(ctx context.Context, tourID string) (int64, error)

	// DB exposes the underlying handle for cross-package transactions.
	DB() *gorm.DB
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BookedSeatMap(ctx context.Context, tourID, busID string) (map[string]string, error) {
	var rows []BookedSeat
	if err := r.db.WithContext(ctx).
		Where("tour_id = ? AND bus_id = ?", tourID, busID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load booked seats: %w", err)
	}

	booked := make(map[string]string, len(rows))
	for _, row := range rows {
		booked[row.SeatID] = row.ClientID
	}
	return booked, nil
}

func (r *repository) CreateBookedSeats(ctx context.Context, tx *gorm.DB, seats []BookedSeat) error {
	if len(seats) == 0 {
		return nil
	}
	db := tx
	if db == nil {
		db = r.db
	}

	if err := db.WithContext(ctx).Create(&seats).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &SeatConflictError{SeatID: seats[0].SeatID}
		}
		return fmt.Errorf("failed to persist booked seats: %w", err)
	}
	return nil
}

func (r *repository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&BookedSeat{}).Error; err != nil {
		return fmt.Errorf("failed to delete booked seats: %w", err)
	}
	return nil
}

func (r *repository) CountByTour(ctx context.Context, tourID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&BookedSeat{}).
		Where("tour_id = ?", tourID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count booked seats: %w", err)
	}
	return count, nil
}

func (r *repository) DB() *gorm.DB {
	return r.db
}
