package seats

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ReservationStore is the authoritative arbiter of seat ownership for
// one deployment. Replace must be all-or-nothing: either the caller's
// whole requested set is applied, or nothing changes.
type ReservationStore interface {
	// Replace atomically swaps the client's reservation set for the given
	// bus with seatIDs, releasing seats the client dropped and claiming the
	// new ones. Fails with a SeatConflictError (and applies nothing) if any
	// newly claimed seat is booked or reserved by another client. Each
	// surviving reservation's TTL is refreshed to ttl. An empty seatIDs
	// releases everything the client holds on the bus.
	Replace(ctx context.Context, tourID, busID, clientID string, seatIDs []string, ttl time.Duration) error

	// Reservations returns the live seatID -> clientID reservation map for
	// the given seats (expired entries excluded).
	Reservations(ctx context.Context, tourID, busID string, seatIDs []string) (map[string]string, error)

	// ReleaseClient drops every reservation the client holds on the bus.
	ReleaseClient(ctx context.Context, tourID, busID, clientID string) error

	// MarkBooked converts the given seats into permanent claims held by
	// clientID, removing any reservations on them. Fails with a
	// SeatConflictError if a seat is booked or reserved by someone else.
	MarkBooked(ctx context.Context, tourID, busID, clientID string, seatIDs []string) error

	// BookedSeats returns the seatID -> clientID map of permanent claims.
	BookedSeats(ctx context.Context, tourID, busID string) (map[string]string, error)
}

// SeatConflictError reports the first seat that blocked an all-or-nothing
// reservation change.
type SeatConflictError struct {
	SeatID string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %s is no longer available", e.SeatID)
}

// IsConflict reports whether err is a seat ownership conflict.
func IsConflict(err error) bool {
	var conflict *SeatConflictError
	return errors.As(err, &conflict)
}

// ConflictSeat extracts the contested seat ID from a conflict error,
// or "" if err is not one.
func ConflictSeat(err error) string {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		return conflict.SeatID
	}
	return ""
}
