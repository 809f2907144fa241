package tours

import (
	"time"

	"github.com/google/uuid"
)

type Tour struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	FromCity    string    `json:"from" gorm:"column:from_city;not null;size:120"`
	ToCity      string    `json:"to" gorm:"column:to_city;not null;size:120"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	Price       float64   `json:"price" gorm:"not null;check:price >= 0"`
	Status      Status    `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`

	// Per-seat booking only applies when the tour travels by coach.
	HasBusSeatSelection bool `json:"has_bus_seat_selection" gorm:"default:false"`
	BusCount            int  `json:"bus_count" gorm:"default:1;check:bus_count >= 1 AND bus_count <= 5"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Tour) TableName() string {
	return "tours"
}

// ToResponse converts a Tour to its API shape.
func (t *Tour) ToResponse() TourResponse {
	return TourResponse{
		ID:                  t.ID.String(),
		Name:                t.Name,
		Description:         t.Description,
		FromCity:            t.FromCity,
		ToCity:              t.ToCity,
		StartDate:           t.StartDate,
		EndDate:             t.EndDate,
		Price:               t.Price,
		Status:              t.Status,
		ImageURL:            t.ImageURL,
		HasBusSeatSelection: t.HasBusSeatSelection,
		BusCount:            t.BusCount,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
