package seats

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Seat is one entry of a bus seat map as served to clients. Exactly one
// of ReservedBy/BookedBy may be set; IsAvailable is derived from both.
type Seat struct {
	ID          string `json:"id"`
	Row         string `json:"row"`
	Number      int    `json:"number"`
	IsAvailable bool   `json:"isAvailable"`
	ReservedBy  string `json:"reservedBy,omitempty"`
	BookedBy    string `json:"bookedBy,omitempty"`
}

// IsBooked reports whether the seat carries a permanent claim.
func (s *Seat) IsBooked() bool {
	return s.BookedBy != ""
}

// IsReserved reports whether the seat carries a temporary claim.
func (s *Seat) IsReserved() bool {
	return s.ReservedBy != ""
}

// BookedSeat is the permanent, database-backed record of a seat claimed
// by an approved booking. Reservations never touch this table; rows are
// only written when an admin approves a booking.
type BookedSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TourID    string    `gorm:"index;not null;uniqueIndex:idx_tour_bus_seat" json:"tour_id"`
	BusID     string    `gorm:"not null;uniqueIndex:idx_tour_bus_seat" json:"bus_id"`
	SeatID    string    `gorm:"not null;uniqueIndex:idx_tour_bus_seat" json:"seat_id"`
	ClientID  string    `gorm:"index;not null" json:"client_id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for BookedSeat
func (BookedSeat) TableName() string {
	return "booked_seats"
}

// BuildSeatMap assembles the full 40-seat map for one bus from the
// permanent bookings and the live reservations. Booked wins over
// reserved for the same seat (a reservation being finalized).
func BuildSeatMap(booked, reserved map[string]string) []Seat {
	seatMap := make([]Seat, 0, SeatsPerBus)
	for _, pos := range Layout() {
		seat := Seat{ID: pos.ID, Row: pos.Row, Number: pos.Number}
		if owner, ok := booked[pos.ID]; ok {
			seat.BookedBy = owner
		} else if owner, ok := reserved[pos.ID]; ok {
			seat.ReservedBy = owner
		}
		seat.IsAvailable = !seat.IsBooked() && !seat.IsReserved()
		seatMap = append(seatMap, seat)
	}
	return seatMap
}

// AvailableSeatIDs filters a seat map down to the IDs of available seats.
func AvailableSeatIDs(seatMap []Seat) []string {
	var available []string
	for _, seat := range seatMap {
		if seat.IsAvailable {
			available = append(available, seat.ID)
		}
	}
	return available
}

// TourInfo is the slice of tour data the seat service needs. Provided
// through an interface to avoid a circular dependency on the tours package.
type TourInfo struct {
	ID               string
	Name             string
	Status           string
	Price            float64
	BusCount         int
	HasSeatSelection bool
}

// TourProvider supplies tour metadata for seat map requests.
type TourProvider interface {
	GetTourInfo(ctx context.Context, tourID string) (*TourInfo, error)
}
