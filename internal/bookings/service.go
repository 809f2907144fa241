package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourly/internal/seats"
	"tourly/internal/shared/config"
	"tourly/pkg/logger"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingNotPending  = errors.New("booking is no longer pending")
	ErrTourNotBookable    = errors.New("tour is not open for booking")
	ErrSeatsMismatch      = errors.New("seat count must match the number of persons")
	ErrPaymentRefRequired = errors.New("a transaction ID or payment proof is required")
)

// SeatService is the slice of the seat package the booking lifecycle
// needs (narrowed to avoid a circular dependency).
type SeatService interface {
	ValidateSeatSelection(ctx context.Context, tourID string, seatAssignments []seats.SeatAssignment) error
	ExtendReservations(ctx context.Context, tourID, clientID string, seatAssignments []seats.SeatAssignment, ttl time.Duration) error
	FinalizeBookedSeats(ctx context.Context, tx *gorm.DB, tourID string, bookingID uuid.UUID, clientID string, seatAssignments []seats.SeatAssignment) error
	ReleaseClientReservations(ctx context.Context, tourID, clientID string) error
}

// TourService supplies the tour metadata bookings validate against.
type TourService interface {
	GetTourInfo(ctx context.Context, tourID string) (*seats.TourInfo, error)
}

// Notifier publishes booking lifecycle events. A nil Notifier is valid
// and simply drops them.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, booking *Booking, tourName string)
	NotifyBookingResolved(ctx context.Context, booking *Booking, tourName string)
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*BookingResponse, error)
	GetBookingStatus(ctx context.Context, bookingID string) (*BookingStatusResponse, error)
	GetClientBookings(ctx context.Context, clientID string, limit, offset int) ([]BookingResponse, error)

	// Admin operations
	ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)
	ApproveBooking(ctx context.Context, bookingID string, adminID uuid.UUID) (*BookingResponse, error)
	RejectBooking(ctx context.Context, bookingID string, adminID uuid.UUID, reason string) (*BookingResponse, error)

	// ExpireDueBookings is the sweeper entry point; it also backs the
	// lazy expiry on status reads.
	ExpireDueBookings(ctx context.Context, limit int) (int, error)

	CountByStatus(ctx context.Context) (map[string]int64, error)

	SetNotifier(notifier Notifier)
}

type service struct {
	repo        Repository
	seatService SeatService
	tourService TourService
	notifier    Notifier
	config      *config.Config
	now         func() time.Time
}

func NewService(repo Repository, seatService SeatService, tourService TourService, cfg *config.Config) Service {
	return &service{
		repo:        repo,
		seatService: seatService,
		tourService: tourService,
		config:      cfg,
		now:         time.Now,
	}
}

// SetNotifier wires the notification pipeline in after construction, so
// the server can boot without Kafka in development.
func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	tour, err := s.tourService.GetTourInfo(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if tour.Status != "active" {
		return nil, ErrTourNotBookable
	}

	if req.TransactionID == "" && req.PaymentProofURL == "" {
		return nil, ErrPaymentRefRequired
	}

	seatAssignments := make([]seats.SeatAssignment, len(req.Seats))
	for i, seat := range req.Seats {
		seatAssignments[i] = seats.SeatAssignment{BusIndex: seat.BusIndex, SeatID: seat.SeatID}
	}

	if tour.HasSeatSelection {
		// One seat per traveller, all of them currently reserved by this
		// client.
		if len(seatAssignments) != req.Persons {
			return nil, ErrSeatsMismatch
		}
		if err := s.seatService.ValidateSeatSelection(ctx, req.TourID, seatAssignments); err != nil {
			return nil, err
		}
	} else if len(seatAssignments) > 0 {
		return nil, fmt.Errorf("tour does not offer seat selection")
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return nil, fmt.Errorf("invalid tour ID: %w", err)
	}

	now := s.now()
	booking := &Booking{
		BookingRef:      bookingRef,
		TourID:          tourID,
		ClientID:        req.ClientID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Persons:         req.Persons,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
		PaymentProofURL: req.PaymentProofURL,
		TotalPrice:      tour.Price * float64(req.Persons),
		Status:          string(StatusPending),
		ExpiresAt:       now.Add(s.config.Booking.ExpiryWindow),
	}
	for _, assignment := range seatAssignments {
		booking.Seats = append(booking.Seats, BookingSeat{
			BusIndex: assignment.BusIndex,
			SeatID:   assignment.SeatID,
		})
	}

	if tour.HasSeatSelection {
		// Re-assert the client's claims so they outlive the pending
		// window; a lost seat surfaces as a conflict here, before the
		// booking exists.
		holdTTL := s.config.Booking.ExpiryWindow + time.Minute
		if err := s.seatService.ExtendReservations(ctx, req.TourID, req.ClientID, seatAssignments, holdTTL); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), req.TourID, req.ClientID)
	if s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, booking, tour.Name)
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID string) (*BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := booking.ToResponse()
	return &resp, nil
}

// GetBookingStatus serves the 10-second status poll. Overdue pending
// bookings are expired lazily here, so a client always observes a
// deadline it has passed.
func (s *service) GetBookingStatus(ctx context.Context, bookingID string) (*BookingStatusResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if booking.ExpiryDue(now) {
		if err := s.expireBooking(ctx, booking, now); err != nil {
			return nil, err
		}
	}

	resp := booking.ToStatusResponse(now)
	return &resp, nil
}

func (s *service) GetClientBookings(ctx context.Context, clientID string, limit, offset int) ([]BookingResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	bookings, err := s.repo.GetByClientID(ctx, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get client bookings: %w", err)
	}

	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}
	return responses, nil
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	bookings, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))
	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

// ApproveBooking performs the pending -> approved transition and turns
// the booking's reservations into permanent seat claims, atomically with
// the status flip.
func (s *service) ApproveBooking(ctx context.Context, bookingID string, adminID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if booking.ExpiryDue(now) {
		if err := s.expireBooking(ctx, booking, now); err != nil {
			return nil, err
		}
		return nil, ErrBookingNotPending
	}

	seatAssignments := bookingSeatAssignments(booking)

	err = s.repo.WithTransaction(func(tx *gorm.DB) error {
		updated, err := s.repo.UpdateStatusIfPending(ctx, tx, booking.ID, StatusApproved, &adminID, now)
		if err != nil {
			return err
		}
		if !updated {
			return ErrBookingNotPending
		}

		if len(seatAssignments) > 0 {
			return s.seatService.FinalizeBookedSeats(ctx, tx, booking.TourID.String(), booking.ID, booking.ClientID, seatAssignments)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = string(StatusApproved)
	booking.ResolvedAt = &now
	booking.ResolvedBy = &adminID

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(), string(StatusPending), string(StatusApproved))
	if s.notifier != nil {
		s.notifier.NotifyBookingResolved(ctx, booking, s.tourName(ctx, booking))
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) RejectBooking(ctx context.Context, bookingID string, adminID uuid.UUID, reason string) (*BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.repo.UpdateStatusIfPending(ctx, nil, booking.ID, StatusRejected, &adminID, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrBookingNotPending
	}

	if reason != "" {
		logger.GetDefault().InfoWithContext(ctx, "booking rejected", map[string]interface{}{
			"booking_id": booking.ID.String(),
			"reason":     reason,
		})
	}

	s.releaseSeats(ctx, booking)

	booking.Status = string(StatusRejected)
	booking.ResolvedAt = &now
	booking.ResolvedBy = &adminID

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(), string(StatusPending), string(StatusRejected))
	if s.notifier != nil {
		s.notifier.NotifyBookingResolved(ctx, booking, s.tourName(ctx, booking))
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ExpireDueBookings(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = s.config.Booking.ExpiryBatchSize
	}

	now := s.now()
	due, err := s.repo.FindDueForExpiry(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to find overdue bookings: %w", err)
	}

	expired := 0
	for i := range due {
		booking := &due[i]
		if err := s.expireBooking(ctx, booking, now); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to expire booking", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *service) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

//  HELPERS

func (s *service) loadBooking(ctx context.Context, bookingID string) (*Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// expireBooking performs the conditional expired transition; the caller
// holds a Booking that looked overdue, but only the row update decides.
func (s *service) expireBooking(ctx context.Context, booking *Booking, now time.Time) error {
	transitioned, err := s.repo.MarkExpiredIfDue(ctx, booking.ID, now)
	if err != nil {
		return err
	}
	if !transitioned {
		// Someone else resolved it first; reload to reflect that.
		fresh, err := s.repo.GetByID(ctx, booking.ID)
		if err != nil {
			return err
		}
		*booking = *fresh
		return nil
	}

	booking.Status = string(StatusExpired)
	booking.ResolvedAt = &now

	s.releaseSeats(ctx, booking)

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(), string(StatusPending), string(StatusExpired))
	if s.notifier != nil {
		s.notifier.NotifyBookingResolved(ctx, booking, s.tourName(ctx, booking))
	}
	return nil
}

func (s *service) releaseSeats(ctx context.Context, booking *Booking) {
	if len(booking.Seats) == 0 {
		return
	}
	if err := s.seatService.ReleaseClientReservations(ctx, booking.TourID.String(), booking.ClientID); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to release booking reservations", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}
}

func (s *service) tourName(ctx context.Context, booking *Booking) string {
	tour, err := s.tourService.GetTourInfo(ctx, booking.TourID.String())
	if err != nil {
		return ""
	}
	return tour.Name
}

func bookingSeatAssignments(booking *Booking) []seats.SeatAssignment {
	assignments := make([]seats.SeatAssignment, len(booking.Seats))
	for i, seat := range booking.Seats {
		assignments[i] = seats.SeatAssignment{BusIndex: seat.BusIndex, SeatID: seat.SeatID}
	}
	return assignments
}

// generateBookingReference generates a unique booking reference
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TUR-%s-%s", timestamp, string(randomPart)), nil
}
