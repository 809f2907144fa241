package seats

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTour = "tour-1"
	testBus  = "0"
	testTTL  = 15 * time.Minute
)

func TestMemoryStore_ReplaceAndRead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Replace(ctx, testTour, testBus, "alice", []string{"A1", "A2"}, testTTL)
	require.NoError(t, err)

	owners, err := store.Reservations(ctx, testTour, testBus, []string{"A1", "A2", "A3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "alice", "A2": "alice"}, owners)
}

func TestMemoryStore_ReplaceReleasesDroppedSeats(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1", "A2", "A3"}, testTTL))
	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A2", "B1"}, testTTL))

	owners, err := store.Reservations(ctx, testTour, testBus, SeatIDs())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A2": "alice", "B1": "alice"}, owners)
}

func TestMemoryStore_ReplaceEmptyReleasesAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1", "A2"}, testTTL))
	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", nil, testTTL))

	owners, err := store.Reservations(ctx, testTour, testBus, SeatIDs())
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestMemoryStore_ConflictIsAllOrNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"B2"}, testTTL))

	// Bob asks for two free seats plus Alice's seat: nothing may change.
	err := store.Replace(ctx, testTour, testBus, "bob", []string{"A1", "B2", "C1"}, testTTL)
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "B2", conflict.SeatID)

	owners, readErr := store.Reservations(ctx, testTour, testBus, SeatIDs())
	require.NoError(t, readErr)
	assert.Equal(t, map[string]string{"B2": "alice"}, owners)
}

func TestMemoryStore_ConflictKeepsRequesterPriorSeats(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"B2"}, testTTL))
	require.NoError(t, store.Replace(ctx, testTour, testBus, "bob", []string{"C1"}, testTTL))

	err := store.Replace(ctx, testTour, testBus, "bob", []string{"C1", "B2"}, testTTL)
	require.Error(t, err)

	owners, readErr := store.Reservations(ctx, testTour, testBus, SeatIDs())
	require.NoError(t, readErr)
	assert.Equal(t, "bob", owners["C1"], "a failed replace must not drop the prior reservation")
}

func TestMemoryStore_ReservationsExpire(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.SetNowFunc(func() time.Time { return current })

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1"}, testTTL))

	current = current.Add(testTTL + time.Second)

	owners, err := store.Reservations(ctx, testTour, testBus, []string{"A1"})
	require.NoError(t, err)
	assert.Empty(t, owners)

	// The expired seat is reclaimable by anyone.
	assert.NoError(t, store.Replace(ctx, testTour, testBus, "bob", []string{"A1"}, testTTL))
}

func TestMemoryStore_ReplaceRefreshesTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.SetNowFunc(func() time.Time { return current })

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1"}, testTTL))

	// Re-submit just before expiry; deadline moves forward.
	current = current.Add(testTTL - time.Minute)
	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1"}, testTTL))

	current = current.Add(testTTL - time.Minute)
	owners, err := store.Reservations(ctx, testTour, testBus, []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", owners["A1"])
}

func TestMemoryStore_MarkBookedBlocksReservations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1", "A2"}, testTTL))
	require.NoError(t, store.MarkBooked(ctx, testTour, testBus, "alice", []string{"A1", "A2"}))

	booked, err := store.BookedSeats(ctx, testTour, testBus)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "alice", "A2": "alice"}, booked)

	err = store.Replace(ctx, testTour, testBus, "bob", []string{"A1"}, testTTL)
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "A1", conflict.SeatID)
}

func TestMemoryStore_MarkBookedRejectsForeignReservation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, testBus, "alice", []string{"A1"}, testTTL))

	err := store.MarkBooked(ctx, testTour, testBus, "bob", []string{"A1"})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestMemoryStore_BusesAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testTour, "0", "alice", []string{"A1"}, testTTL))
	require.NoError(t, store.Replace(ctx, testTour, "1", "bob", []string{"A1"}, testTTL))

	bus0, err := store.Reservations(ctx, testTour, "0", []string{"A1"})
	require.NoError(t, err)
	bus1, err := store.Reservations(ctx, testTour, "1", []string{"A1"})
	require.NoError(t, err)

	assert.Equal(t, "alice", bus0["A1"])
	assert.Equal(t, "bob", bus1["A1"])
}

func TestMemoryStore_ConcurrentReplaceSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const clients = 20
	var wg sync.WaitGroup
	wins := make(chan string, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			clientID := fmt.Sprintf("client-%d", id)
			if err := store.Replace(ctx, testTour, testBus, clientID, []string{"A1"}, testTTL); err == nil {
				wins <- clientID
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1, "exactly one client may win a contested seat")

	owners, err := store.Reservations(ctx, testTour, testBus, []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, winners[0], owners["A1"])
}
