package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints and indexes that
// AutoMigrate does not express, mostly for concurrency control and
// sweep performance.
func MigrateConstraints(db *gorm.DB) error {
	// Double-booking guard: one row per seat per bus per tour. The
	// conditional insert in the seat repository depends on this.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booked_seats_tour_bus_seat
		ON booked_seats (tour_id, bus_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Expiry sweeper scans only pending bookings past their deadline
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_pending_expiry
		ON bookings (expires_at)
		WHERE status = 'pending';
	`).Error
	if err != nil {
		return err
	}

	// Client booking history lookups
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_client_created
		ON bookings (client_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
