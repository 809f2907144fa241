package bookings

// CreateBookingRequest is the booking form as submitted by a client.
type CreateBookingRequest struct {
	TourID   string `json:"tourId" binding:"required,uuid"`
	ClientID string `json:"clientId" binding:"required,uuid4"`

	CustomerName  string `json:"customerName" binding:"required,min=2,max=200"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerPhone string `json:"customerPhone" binding:"required,min=6,max=40"`
	Persons       int    `json:"persons" binding:"required,min=1,max=40"`
	Notes         string `json:"notes" binding:"max=2000"`

	// Seats are required when the tour uses per-seat booking; one entry
	// per person, in the client's reservation set.
	Seats []BookingSeatRequest `json:"seats" binding:"omitempty,max=40,dive"`

	PaymentMethod   string `json:"paymentMethod" binding:"required,oneof=manual bkash"`
	TransactionID   string `json:"transactionId" binding:"omitempty,max=120"`
	PaymentProofURL string `json:"paymentProof" binding:"omitempty,max=500"`
}

// BookingSeatRequest names one reserved seat being committed.
type BookingSeatRequest struct {
	BusIndex int    `json:"busIndex" binding:"min=0,max=4"`
	SeatID   string `json:"seatId" binding:"required,min=1,max=2"`
}

// BookingListQuery filters the admin booking list.
type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected expired"`
	TourID string `form:"tour_id" binding:"omitempty,uuid"`
	Search string `form:"search"`
}

// ResolveBookingRequest carries an optional admin note for a terminal
// transition.
type ResolveBookingRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}
