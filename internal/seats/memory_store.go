package seats

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local ReservationStore guarded by a mutex.
// It backs tests and Redis-less development runs; the mutex gives the
// same serialization guarantee the Redis Lua scripts give in production.
type MemoryStore struct {
	mu    sync.Mutex
	buses map[string]*busState
	now   func() time.Time
}

type busState struct {
	reservations map[string]reservation // seatID -> owner + deadline
	booked       map[string]string      // seatID -> clientID
}

type reservation struct {
	clientID  string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory seat store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buses: make(map[string]*busState),
		now:   time.Now,
	}
}

// SetNowFunc overrides the clock, for tests exercising reservation expiry.
func (m *MemoryStore) SetNowFunc(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) bus(tourID, busID string) *busState {
	key := tourID + ":" + busID
	state, ok := m.buses[key]
	if !ok {
		state = &busState{
			reservations: make(map[string]reservation),
			booked:       make(map[string]string),
		}
		m.buses[key] = state
	}
	return state
}

// pruneExpired drops reservations past their deadline. Caller holds the lock.
func (m *MemoryStore) pruneExpired(state *busState) {
	now := m.now()
	for seatID, resv := range state.reservations {
		if now.After(resv.expiresAt) {
			delete(state.reservations, seatID)
		}
	}
}

func (m *MemoryStore) Replace(ctx context.Context, tourID, busID, clientID string, seatIDs []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.bus(tourID, busID)
	m.pruneExpired(state)

	// Conflict scan first: the whole request fails before anything is touched.
	for _, seatID := range seatIDs {
		if _, booked := state.booked[seatID]; booked {
			return &SeatConflictError{SeatID: seatID}
		}
		if resv, held := state.reservations[seatID]; held && resv.clientID != clientID {
			return &SeatConflictError{SeatID: seatID}
		}
	}

	requested := make(map[string]bool, len(seatIDs))
	for _, seatID := range seatIDs {
		requested[seatID] = true
	}

	// Release seats the client dropped.
	for seatID, resv := range state.reservations {
		if resv.clientID == clientID && !requested[seatID] {
			delete(state.reservations, seatID)
		}
	}

	// Claim or refresh the requested set.
	deadline := m.now().Add(ttl)
	for _, seatID := range seatIDs {
		state.reservations[seatID] = reservation{clientID: clientID, expiresAt: deadline}
	}

	return nil
}

func (m *MemoryStore) Reservations(ctx context.Context, tourID, busID string, seatIDs []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.bus(tourID, busID)
	m.pruneExpired(state)

	result := make(map[string]string)
	for _, seatID := range seatIDs {
		if resv, ok := state.reservations[seatID]; ok {
			result[seatID] = resv.clientID
		}
	}
	return result, nil
}

func (m *MemoryStore) ReleaseClient(ctx context.Context, tourID, busID, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.bus(tourID, busID)
	for seatID, resv := range state.reservations {
		if resv.clientID == clientID {
			delete(state.reservations, seatID)
		}
	}
	return nil
}

func (m *MemoryStore) MarkBooked(ctx context.Context, tourID, busID, clientID string, seatIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.bus(tourID, busID)
	m.pruneExpired(state)

	for _, seatID := range seatIDs {
		if owner, booked := state.booked[seatID]; booked && owner != clientID {
			return &SeatConflictError{SeatID: seatID}
		}
		if resv, held := state.reservations[seatID]; held && resv.clientID != clientID {
			return &SeatConflictError{SeatID: seatID}
		}
	}

	for _, seatID := range seatIDs {
		state.booked[seatID] = clientID
		delete(state.reservations, seatID)
	}
	return nil
}

func (m *MemoryStore) BookedSeats(ctx context.Context, tourID, busID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.bus(tourID, busID)
	result := make(map[string]string, len(state.booked))
	for seatID, clientID := range state.booked {
		result[seatID] = clientID
	}
	return result, nil
}
