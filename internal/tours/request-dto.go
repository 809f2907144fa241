package tours

import "time"

type CreateTourRequest struct {
	Name                string    `json:"name" binding:"required,min=3,max=255"`
	Description         string    `json:"description" binding:"max=2000"`
	FromCity            string    `json:"from" binding:"required,min=2,max=120"`
	ToCity              string    `json:"to" binding:"required,min=2,max=120"`
	StartDate           time.Time `json:"start_date" binding:"required"`
	EndDate             time.Time `json:"end_date" binding:"required"`
	Price               float64   `json:"price" binding:"required,min=0"`
	ImageURL            string    `json:"image_url" binding:"omitempty,url"`
	HasBusSeatSelection bool      `json:"has_bus_seat_selection"`
	BusCount            int       `json:"bus_count" binding:"omitempty,min=1,max=5"`
}

type UpdateTourRequest struct {
	Name                *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description         *string    `json:"description" binding:"omitempty,max=2000"`
	FromCity            *string    `json:"from" binding:"omitempty,min=2,max=120"`
	ToCity              *string    `json:"to" binding:"omitempty,min=2,max=120"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	Price               *float64   `json:"price" binding:"omitempty,min=0"`
	Status              *string    `json:"status" binding:"omitempty,oneof=draft active inactive"`
	ImageURL            *string    `json:"image_url" binding:"omitempty,url"`
	HasBusSeatSelection *bool      `json:"has_bus_seat_selection"`
	BusCount            *int       `json:"bus_count" binding:"omitempty,min=1,max=5"`
}

type TourListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	FromCity string `form:"from"`
	ToCity   string `form:"to"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active inactive"`
}
