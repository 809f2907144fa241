package tours

import "time"

type TourResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	FromCity            string    `json:"from"`
	ToCity              string    `json:"to"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	Price               float64   `json:"price"`
	Status              Status    `json:"status"`
	ImageURL            string    `json:"image_url"`
	HasBusSeatSelection bool      `json:"has_bus_seat_selection"`
	BusCount            int       `json:"bus_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type PaginatedTours struct {
	Tours      []TourResponse `json:"tours"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
