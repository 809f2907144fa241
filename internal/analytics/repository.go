package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"tourly/internal/seats"
)

type Repository interface {
	GetOverview() (*OverviewAnalytics, error)
	GetTourOccupancy() ([]TourOccupancy, error)
	GetDailyBookingStats(days int) ([]DailyBookingStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverview() (*OverviewAnalytics, error) {
	var overview OverviewAnalytics

	var totalTours, activeTours int64
	if err := r.db.Table("tours").Count(&totalTours).Error; err != nil {
		return nil, fmt.Errorf("failed to count tours: %w", err)
	}
	if err := r.db.Table("tours").Where("status = ?", "active").Count(&activeTours).Error; err != nil {
		return nil, fmt.Errorf("failed to count active tours: %w", err)
	}
	overview.TotalTours = int(totalTours)
	overview.ActiveTours = int(activeTours)

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := r.db.Table("bookings").
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	overview.BookingsByStatus = make(map[string]int64, len(counts))
	for _, sc := range counts {
		overview.BookingsByStatus[sc.Status] = sc.Count
		overview.TotalBookings += sc.Count
	}

	type revenueResult struct {
		Revenue float64
	}
	var approved, pending revenueResult
	if err := r.db.Table("bookings").
		Select("COALESCE(SUM(total_price), 0) as revenue").
		Where("status = ?", "approved").
		Scan(&approved).Error; err != nil {
		return nil, fmt.Errorf("failed to sum approved revenue: %w", err)
	}
	if err := r.db.Table("bookings").
		Select("COALESCE(SUM(total_price), 0) as revenue").
		Where("status = ?", "pending").
		Scan(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to sum pending revenue: %w", err)
	}
	overview.ApprovedRevenue = approved.Revenue
	overview.PendingRevenue = pending.Revenue

	if err := r.db.Table("booked_seats").Count(&overview.SeatsBooked).Error; err != nil {
		return nil, fmt.Errorf("failed to count booked seats: %w", err)
	}

	return &overview, nil
}

func (r *repository) GetTourOccupancy() ([]TourOccupancy, error) {
	type row struct {
		TourID      string
		TourName    string
		BusCount    int
		BookedSeats int64
	}

	var rows []row
	err := r.db.Table("tours t").
		Select("t.id as tour_id, t.name as tour_name, t.bus_count, COUNT(bs.id) as booked_seats").
		Joins("LEFT JOIN booked_seats bs ON bs.tour_id = t.id::text").
		Where("t.has_bus_seat_selection = ?", true).
		Group("t.id, t.name, t.bus_count").
		Order("booked_seats DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tour occupancy: %w", err)
	}

	occupancy := make([]TourOccupancy, len(rows))
	for i, r := range rows {
		totalSeats := r.BusCount * seats.SeatsPerBus
		rate := float64(0)
		if totalSeats > 0 {
			rate = float64(r.BookedSeats) / float64(totalSeats) * 100
		}
		occupancy[i] = TourOccupancy{
			TourID:        r.TourID,
			TourName:      r.TourName,
			BusCount:      r.BusCount,
			TotalSeats:    totalSeats,
			BookedSeats:   r.BookedSeats,
			OccupancyRate: rate,
		}
	}
	return occupancy, nil
}

func (r *repository) GetDailyBookingStats(days int) ([]DailyBookingStats, error) {
	if days <= 0 {
		days = 30
	}

	type row struct {
		Date     string
		Bookings int
		Revenue  float64
	}

	var rows []row
	err := r.db.Table("bookings").
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, COUNT(*) as bookings, COALESCE(SUM(total_price), 0) as revenue").
		Where("created_at >= ?", time.Now().AddDate(0, 0, -days)).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily booking stats: %w", err)
	}

	stats := make([]DailyBookingStats, len(rows))
	for i, r := range rows {
		stats[i] = DailyBookingStats(r)
	}
	return stats, nil
}
