package seats

// ReserveSeatsRequest replaces a client's entire reservation set for one
// bus. Sending an empty seat list releases everything the client holds.
type ReserveSeatsRequest struct {
	ClientID string   `json:"clientId" binding:"required,uuid4"`
	SeatIDs  []string `json:"seatIds" binding:"max=40,dive,min=1,max=2"`
}
