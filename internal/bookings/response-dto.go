package bookings

import (
	"time"
)

// BookingResponse is the full booking record in API responses.
type BookingResponse struct {
	ID              string            `json:"id"`
	BookingRef      string            `json:"booking_ref"`
	TourID          string            `json:"tour_id"`
	ClientID        string            `json:"client_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	Persons         int               `json:"persons"`
	Notes           string            `json:"notes,omitempty"`
	Seats           []BookingSeatInfo `json:"seats,omitempty"`
	PaymentMethod   string            `json:"payment_method"`
	TransactionID   string            `json:"transaction_id,omitempty"`
	PaymentProofURL string            `json:"payment_proof_url,omitempty"`
	TotalPrice      float64           `json:"total_price"`
	Status          string            `json:"status"`
	ExpiresAt       time.Time         `json:"expires_at"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// BookingSeatInfo is one claimed seat in API responses.
type BookingSeatInfo struct {
	BusIndex int    `json:"busIndex"`
	SeatID   string `json:"seatId"`
}

// BookingStatusResponse is the compact polled status payload.
type BookingStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	TimeLeft  string    `json:"time_left"`
}

// PaginatedBookings wraps an admin booking list page.
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a Booking to its API shape.
func (b *Booking) ToResponse() BookingResponse {
	seats := make([]BookingSeatInfo, len(b.Seats))
	for i, seat := range b.Seats {
		seats[i] = BookingSeatInfo{BusIndex: seat.BusIndex, SeatID: seat.SeatID}
	}

	return BookingResponse{
		ID:              b.ID.String(),
		BookingRef:      b.BookingRef,
		TourID:          b.TourID.String(),
		ClientID:        b.ClientID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		Persons:         b.Persons,
		Notes:           b.Notes,
		Seats:           seats,
		PaymentMethod:   b.PaymentMethod,
		TransactionID:   b.TransactionID,
		PaymentProofURL: b.PaymentProofURL,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		ExpiresAt:       b.ExpiresAt,
		ResolvedAt:      b.ResolvedAt,
		CreatedAt:       b.CreatedAt,
	}
}

// ToStatusResponse converts a Booking to the polled status payload.
func (b *Booking) ToStatusResponse(now time.Time) BookingStatusResponse {
	timeLeft := ""
	if b.IsPending() {
		timeLeft = FormatTimeLeft(b.ExpiresAt, now)
	}
	return BookingStatusResponse{
		ID:        b.ID.String(),
		Status:    b.Status,
		ExpiresAt: b.ExpiresAt,
		TimeLeft:  timeLeft,
	}
}
