package database

import (
	"tourly/internal/bookings"
	"tourly/internal/payments"
	"tourly/internal/seats"
	"tourly/internal/tours"
	"tourly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults require the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&tours.Tour{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&seats.BookedSeat{},
		&payments.PaymentSettings{},
	)
}
