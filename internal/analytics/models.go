package analytics

// OverviewAnalytics is the admin dashboard headline view.
type OverviewAnalytics struct {
	TotalTours       int              `json:"total_tours"`
	ActiveTours      int              `json:"active_tours"`
	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	ApprovedRevenue  float64          `json:"approved_revenue"`
	PendingRevenue   float64          `json:"pending_revenue"`
	SeatsBooked      int64            `json:"seats_booked"`
}

// TourOccupancy summarizes seat fill for one tour.
type TourOccupancy struct {
	TourID        string  `json:"tour_id"`
	TourName      string  `json:"tour_name"`
	BusCount      int     `json:"bus_count"`
	TotalSeats    int     `json:"total_seats"`
	BookedSeats   int64   `json:"booked_seats"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// DailyBookingStats is one day of booking volume.
type DailyBookingStats struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}
