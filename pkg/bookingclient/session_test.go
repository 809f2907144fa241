package bookingclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seatServer fakes the reservation endpoint: it accepts every replace
// and records the last seat set each client submitted.
type seatServer struct {
	mu       sync.Mutex
	lastSets [][]string
	conflict string // non-empty: reject any replace containing this seat
}

func (s *seatServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeEnvelope(w, http.StatusOK, SeatMap{TourID: "tour-1", BusCount: 1}, nil)
			return
		}

		var req struct {
			ClientID string   `json:"clientId"`
			SeatIDs  []string `json:"seatIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		s.mu.Lock()
		conflict := s.conflict
		s.mu.Unlock()
		for _, id := range req.SeatIDs {
			if id == conflict {
				writeEnvelope(w, http.StatusConflict, nil, map[string]string{"seat": id})
				return
			}
		}

		s.mu.Lock()
		s.lastSets = append(s.lastSets, req.SeatIDs)
		s.mu.Unlock()

		writeEnvelope(w, http.StatusOK, Reservation{
			TourID:        "tour-1",
			ClientID:      req.ClientID,
			ReservedSeats: req.SeatIDs,
			TTLSeconds:    900,
		}, nil)
	})
}

func (s *seatServer) replaceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastSets)
}

func (s *seatServer) lastSet() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lastSets) == 0 {
		return nil
	}
	return s.lastSets[len(s.lastSets)-1]
}

func TestToggleSeat_SelectAndDeselect(t *testing.T) {
	fake := &seatServer{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	session := NewSeatSession(New(server.URL), "tour-1", 0, "client-1", 4)
	ctx := context.Background()

	require.NoError(t, session.ToggleSeat(ctx, "A1"))
	require.NoError(t, session.ToggleSeat(ctx, "A2"))
	assert.Equal(t, []string{"A1", "A2"}, session.Selected())

	// Toggling a held seat releases it; the server sees the full set.
	require.NoError(t, session.ToggleSeat(ctx, "A1"))
	assert.Equal(t, []string{"A2"}, session.Selected())
	assert.Equal(t, []string{"A2"}, fake.lastSet())
}

func TestToggleSeat_CapIsSilentNoOp(t *testing.T) {
	fake := &seatServer{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	session := NewSeatSession(New(server.URL), "tour-1", 0, "client-1", 2)
	ctx := context.Background()

	require.NoError(t, session.ToggleSeat(ctx, "A1"))
	require.NoError(t, session.ToggleSeat(ctx, "A2"))
	calls := fake.replaceCalls()

	// At the cap: no error, no selection change, no request.
	require.NoError(t, session.ToggleSeat(ctx, "A3"))
	assert.Equal(t, []string{"A1", "A2"}, session.Selected())
	assert.Equal(t, calls, fake.replaceCalls())

	// Deselecting frees a slot; the next add goes through.
	require.NoError(t, session.ToggleSeat(ctx, "A1"))
	require.NoError(t, session.ToggleSeat(ctx, "A3"))
	assert.Equal(t, []string{"A2", "A3"}, session.Selected())
}

func TestToggleSeat_ConflictRollsBackSelection(t *testing.T) {
	fake := &seatServer{conflict: "B2"}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	session := NewSeatSession(New(server.URL), "tour-1", 0, "client-1", 4)
	ctx := context.Background()

	require.NoError(t, session.ToggleSeat(ctx, "A1"))

	err := session.ToggleSeat(ctx, "B2")
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "B2", conflict.SeatID)

	// The lost seat is not part of the local selection.
	assert.Equal(t, []string{"A1"}, session.Selected())
}

func TestToggleSeat_PublishesToSelectionCache(t *testing.T) {
	fake := &seatServer{}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	cache := NewMemorySelectionCache()
	defer cache.Close()
	watch := cache.Watch()

	session := NewSeatSession(New(server.URL), "tour-1", 0, "client-1", 4,
		WithSelectionCache(cache))

	require.NoError(t, session.ToggleSeat(context.Background(), "A1"))

	select {
	case seats := <-watch:
		assert.Equal(t, []string{"A1"}, seats)
	case <-time.After(time.Second):
		t.Fatal("selection change never reached the watcher")
	}
	assert.Equal(t, []string{"A1"}, cache.Seats())
}

func TestRefresh_DropsOutOfOrderResponses(t *testing.T) {
	session := NewSeatSession(nil, "tour-1", 0, "client-1", 4)

	stale := &SeatMap{TourID: "tour-1", AvailableSeats: 40}
	fresh := &SeatMap{TourID: "tour-1", AvailableSeats: 38}

	// Two polls start; the second one's response lands first.
	session.mu.Lock()
	session.seq++
	firstSeq := session.seq
	session.seq++
	secondSeq := session.seq
	session.mu.Unlock()

	session.applyIfCurrent(secondSeq, fresh)
	session.applyIfCurrent(firstSeq, stale)

	assert.Equal(t, 38, session.SeatMap().AvailableSeats,
		"a slow early response must not overwrite a fresher map")
}

func TestStatusWatcher_OneTimeTerminalNotification(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "pending"
		if polls.Add(1) >= 2 {
			status = "approved"
		}
		writeEnvelope(w, http.StatusOK, BookingStatus{ID: "b-1", Status: status}, nil)
	}))
	defer server.Close()

	var notifications []string
	watcher := NewStatusWatcher(New(server.URL), "b-1",
		WithTerminalCallback(func(s *BookingStatus) {
			notifications = append(notifications, s.Status)
		}))

	ctx := context.Background()

	terminal, err := watcher.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, terminal)
	assert.Empty(t, notifications)

	terminal, err = watcher.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, terminal)

	// Further polls re-observe the terminal state without re-notifying.
	terminal, err = watcher.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, terminal)

	assert.Equal(t, []string{"approved"}, notifications)
	assert.Equal(t, "approved", watcher.Latest().Status)
}

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "30:00", FormatCountdown(now.Add(30*time.Minute), now))
	assert.Equal(t, "01:00", FormatCountdown(now.Add(90*time.Second), now.Add(30*time.Second)))
	assert.Equal(t, "00:05", FormatCountdown(now.Add(5*time.Second), now))
	assert.Equal(t, "Expired", FormatCountdown(now, now))
	assert.Equal(t, "Expired", FormatCountdown(now.Add(-time.Second), now))
}
