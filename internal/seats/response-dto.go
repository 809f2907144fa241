package seats

// SeatMapResponse is the full state of one bus as polled by clients.
type SeatMapResponse struct {
	TourID          string `json:"tourId"`
	BusIndex        int    `json:"busIndex"`
	BusCount        int    `json:"busCount"`
	Seats           []Seat `json:"seats"`
	AvailableSeats  int    `json:"availableSeats"`
	NextBusUnlocked bool   `json:"nextBusUnlocked"`
}

// ReservationResponse confirms an applied reservation replace.
type ReservationResponse struct {
	TourID        string   `json:"tourId"`
	BusIndex      int      `json:"busIndex"`
	ClientID      string   `json:"clientId"`
	ReservedSeats []string `json:"reservedSeats"`
	TTLSeconds    int      `json:"ttlSeconds"`
	SeatMap       []Seat   `json:"seatMap"`
}
