package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one customer's pending-or-resolved request for a tour.
// Identity is the client-generated UUID, not a user account, so the
// same record can be looked up again after a page reload.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef string    `gorm:"unique;not null" json:"booking_ref"`
	TourID     uuid.UUID `gorm:"type:uuid;index;not null" json:"tour_id"`
	ClientID   string    `gorm:"index;not null" json:"client_id"`

	// Customer details
	CustomerName  string `gorm:"not null;size:200" json:"customer_name"`
	CustomerEmail string `gorm:"not null;size:255" json:"customer_email"`
	CustomerPhone string `gorm:"not null;size:40" json:"customer_phone"`
	Persons       int    `gorm:"not null;check:persons > 0" json:"persons"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	// Payment reference: at least one of transaction ID or proof upload.
	PaymentMethod   string  `gorm:"type:varchar(20)" json:"payment_method"`
	TransactionID   string  `gorm:"size:120" json:"transaction_id,omitempty"`
	PaymentProofURL string  `gorm:"size:500" json:"payment_proof_url,omitempty"`
	TotalPrice      float64 `gorm:"not null" json:"total_price"`

	Status     string     `gorm:"type:varchar(20);check:status IN ('pending', 'approved', 'rejected', 'expired');default:'pending';index" json:"status"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Seats []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingSeat records one seat a booking claims, per bus.
type BookingSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	BusIndex  int       `gorm:"not null" json:"bus_index"`
	SeatID    string    `gorm:"not null;size:4" json:"seat_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// Helper methods for booking state

func (b *Booking) IsPending() bool {
	return Status(b.Status) == StatusPending
}

func (b *Booking) IsResolved() bool {
	return Status(b.Status).IsTerminal()
}

// ExpiryDue reports whether a pending booking's deadline has passed.
func (b *Booking) ExpiryDue(now time.Time) bool {
	return b.IsPending() && !now.Before(b.ExpiresAt)
}
