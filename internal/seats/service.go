package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourly/internal/shared/config"
	"tourly/internal/shared/constants"
	"tourly/pkg/cache"
	"tourly/pkg/logger"
)

// SeatAssignment names one seat on one bus, as carried by a booking.
type SeatAssignment struct {
	BusIndex int    `json:"busIndex"`
	SeatID   string `json:"seatId"`
}

type Service interface {
	// Seat Map (Core Flow)
	GetSeatMap(ctx context.Context, tourID string, busIndex int) (*SeatMapResponse, error)
	ReplaceReservations(ctx context.Context, tourID string, busIndex int, req ReserveSeatsRequest) (*ReservationResponse, error)

	// Booking Integration
	ExtendReservations(ctx context.Context, tourID, clientID string, seatAssignments []SeatAssignment, ttl time.Duration) error
	FinalizeBookedSeats(ctx context.Context, tx *gorm.DB, tourID string, bookingID uuid.UUID, clientID string, seatAssignments []SeatAssignment) error
	ReleaseClientReservations(ctx context.Context, tourID, clientID string) error
	ReleaseBookedSeats(ctx context.Context, bookingID uuid.UUID, tourID string, seatAssignments []SeatAssignment) error

	// Validation helpers shared with the bookings service
	ValidateSeatSelection(ctx context.Context, tourID string, seatAssignments []SeatAssignment) error

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	store        ReservationStore
	tours        TourProvider
	config       *config.Config
	cacheService cache.Service
}

func NewService(repo Repository, store ReservationStore, tours TourProvider, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		store:  store,
		tours:  tours,
		config: cfg,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func busKey(busIndex int) string {
	return strconv.Itoa(busIndex)
}

//  SEAT MAP (CORE FLOW)

func (s *service) GetSeatMap(ctx context.Context, tourID string, busIndex int) (*SeatMapResponse, error) {
	tour, err := s.validateTour(ctx, tourID, busIndex)
	if err != nil {
		return nil, err
	}

	cacheKey := constants.BuildSeatMapKey(tourID, busKey(busIndex))
	if s.cacheService != nil {
		var cached SeatMapResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	seatMap, err := s.buildSeatMap(ctx, tourID, busIndex)
	if err != nil {
		return nil, err
	}

	available := AvailableSeatIDs(seatMap)
	resp := &SeatMapResponse{
		TourID:          tourID,
		BusIndex:        busIndex,
		BusCount:        tour.BusCount,
		Seats:           seatMap,
		AvailableSeats:  len(available),
		NextBusUnlocked: NextBusUnlocked(available),
	}

	// Snapshot TTL stays under the client poll period so a reservation
	// made by one client is visible to others within one poll.
	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_SEAT_MAP_SNAPSHOT); err != nil {
			logger.GetDefault().Debug("failed to cache seat map snapshot", "key", cacheKey, "error", err)
		}
	}

	return resp, nil
}

func (s *service) ReplaceReservations(ctx context.Context, tourID string, busIndex int, req ReserveSeatsRequest) (*ReservationResponse, error) {
	if _, err := s.validateTour(ctx, tourID, busIndex); err != nil {
		return nil, err
	}

	for _, seatID := range req.SeatIDs {
		if !IsValidSeatID(seatID) {
			return nil, fmt.Errorf("unknown seat: %s", seatID)
		}
	}
	if err := s.requireBusUnlocked(ctx, tourID, busIndex); err != nil {
		return nil, err
	}

	ttl := s.config.Redis.SeatReservationTTL
	err := s.store.Replace(ctx, tourID, busKey(busIndex), req.ClientID, req.SeatIDs, ttl)
	if err != nil {
		if IsConflict(err) {
			logger.GetDefault().LogSeatConflict(ctx, tourID, busKey(busIndex), req.ClientID, ConflictSeat(err))
			return nil, err
		}
		return nil, fmt.Errorf("failed to replace reservations: %w", err)
	}

	logger.GetDefault().LogSeatReservation(ctx, tourID, busKey(busIndex), req.ClientID, len(req.SeatIDs))
	s.invalidateSeatMap(ctx, tourID, busIndex)

	seatMap, err := s.buildSeatMap(ctx, tourID, busIndex)
	if err != nil {
		return nil, err
	}

	return &ReservationResponse{
		TourID:        tourID,
		BusIndex:      busIndex,
		ClientID:      req.ClientID,
		ReservedSeats: req.SeatIDs,
		TTLSeconds:    int(ttl.Seconds()),
		SeatMap:       seatMap,
	}, nil
}

//  BOOKING INTEGRATION

// ExtendReservations re-asserts a client's claims so they outlive the
// pending window of a freshly created booking. Fails with a conflict if
// any claimed seat has been lost in the meantime.
func (s *service) ExtendReservations(ctx context.Context, tourID, clientID string, seatAssignments []SeatAssignment, ttl time.Duration) error {
	for busIndex, seatIDs := range groupByBus(seatAssignments) {
		if err := s.store.Replace(ctx, tourID, busKey(busIndex), clientID, seatIDs, ttl); err != nil {
			return err
		}
		s.invalidateSeatMap(ctx, tourID, busIndex)
	}
	return nil
}

// FinalizeBookedSeats converts reservations into permanent claims: rows
// in Postgres (inside the caller's transaction) plus the booked hash in
// the reservation store. Called on booking approval only.
func (s *service) FinalizeBookedSeats(ctx context.Context, tx *gorm.DB, tourID string, bookingID uuid.UUID, clientID string, seatAssignments []SeatAssignment) error {
	grouped := groupByBus(seatAssignments)

	var rows []BookedSeat
	for busIndex, seatIDs := range grouped {
		for _, seatID := range seatIDs {
			rows = append(rows, BookedSeat{
				TourID:    tourID,
				BusID:     busKey(busIndex),
				SeatID:    seatID,
				ClientID:  clientID,
				BookingID: bookingID,
			})
		}
	}

	if err := s.repo.CreateBookedSeats(ctx, tx, rows); err != nil {
		return err
	}

	for busIndex, seatIDs := range grouped {
		if err := s.store.MarkBooked(ctx, tourID, busKey(busIndex), clientID, seatIDs); err != nil {
			return err
		}
		s.invalidateSeatMap(ctx, tourID, busIndex)
	}
	return nil
}

func (s *service) ReleaseClientReservations(ctx context.Context, tourID, clientID string) error {
	for busIndex := 0; busIndex < MaxBuses; busIndex++ {
		if err := s.store.ReleaseClient(ctx, tourID, busKey(busIndex), clientID); err != nil {
			return fmt.Errorf("failed to release reservations on bus %d: %w", busIndex, err)
		}
		s.invalidateSeatMap(ctx, tourID, busIndex)
	}
	return nil
}

// ReleaseBookedSeats undoes finalized claims, for admin-cancelled
// approved bookings.
func (s *service) ReleaseBookedSeats(ctx context.Context, bookingID uuid.UUID, tourID string, seatAssignments []SeatAssignment) error {
	if err := s.repo.DeleteByBookingID(ctx, bookingID); err != nil {
		return err
	}
	for busIndex := range groupByBus(seatAssignments) {
		s.invalidateSeatMap(ctx, tourID, busIndex)
	}
	return nil
}

// ValidateSeatSelection checks that every assignment names a real seat
// on an in-range bus of the tour.
func (s *service) ValidateSeatSelection(ctx context.Context, tourID string, seatAssignments []SeatAssignment) error {
	tour, err := s.tours.GetTourInfo(ctx, tourID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(seatAssignments))
	for _, assignment := range seatAssignments {
		if assignment.BusIndex < 0 || assignment.BusIndex >= tour.BusCount {
			return fmt.Errorf("bus %d does not exist on this tour", assignment.BusIndex)
		}
		if !IsValidSeatID(assignment.SeatID) {
			return fmt.Errorf("unknown seat: %s", assignment.SeatID)
		}
		key := busKey(assignment.BusIndex) + ":" + assignment.SeatID
		if seen[key] {
			return fmt.Errorf("duplicate seat: %s", assignment.SeatID)
		}
		seen[key] = true
	}
	return nil
}

//  HELPERS

func (s *service) validateTour(ctx context.Context, tourID string, busIndex int) (*TourInfo, error) {
	tour, err := s.tours.GetTourInfo(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour.Status != "active" {
		return nil, fmt.Errorf("tour is not open for booking")
	}
	if !tour.HasSeatSelection {
		return nil, fmt.Errorf("tour does not offer seat selection")
	}
	if busIndex < 0 || busIndex >= tour.BusCount {
		return nil, fmt.Errorf("bus %d does not exist on this tour", busIndex)
	}
	return tour, nil
}

// requireBusUnlocked enforces the progressive fill order: reservations
// on bus N are only allowed once bus N-1 is down to its trailing block
// (or completely full).
func (s *service) requireBusUnlocked(ctx context.Context, tourID string, busIndex int) error {
	if busIndex == 0 {
		return nil
	}
	previous, err := s.buildSeatMap(ctx, tourID, busIndex-1)
	if err != nil {
		return err
	}
	if !NextBusUnlocked(AvailableSeatIDs(previous)) {
		return fmt.Errorf("bus %d is not yet open for reservations", busIndex)
	}
	return nil
}

func (s *service) buildSeatMap(ctx context.Context, tourID string, busIndex int) ([]Seat, error) {
	busID := busKey(busIndex)

	booked, err := s.repo.BookedSeatMap(ctx, tourID, busID)
	if err != nil {
		return nil, err
	}

	// Seats finalized in the store but not yet visible in Postgres (an
	// approval mid-flight) still count as booked.
	storeBooked, err := s.store.BookedSeats(ctx, tourID, busID)
	if err != nil {
		return nil, err
	}
	for seatID, clientID := range storeBooked {
		if _, ok := booked[seatID]; !ok {
			booked[seatID] = clientID
		}
	}

	reserved, err := s.store.Reservations(ctx, tourID, busID, SeatIDs())
	if err != nil {
		return nil, err
	}

	return BuildSeatMap(booked, reserved), nil
}

func (s *service) invalidateSeatMap(ctx context.Context, tourID string, busIndex int) {
	if s.cacheService == nil {
		return
	}
	key := constants.BuildSeatMapKey(tourID, busKey(busIndex))
	if err := s.cacheService.Delete(ctx, key); err != nil {
		logger.GetDefault().Debug("failed to invalidate seat map snapshot", "key", key, "error", err)
	}
}

func groupByBus(seatAssignments []SeatAssignment) map[int][]string {
	grouped := make(map[int][]string)
	for _, assignment := range seatAssignments {
		grouped[assignment.BusIndex] = append(grouped[assignment.BusIndex], assignment.SeatID)
	}
	return grouped
}
