package bookingclient

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	seatMapPollInterval = 5 * time.Second
	statusPollInterval  = 10 * time.Second
)

// FormatCountdown renders the time left until deadline as "MM:SS",
// or "Expired" once the deadline has passed.
func FormatCountdown(deadline, now time.Time) string {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}
	total := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// SeatSession drives one client's seat selection on one bus: toggling
// seats up to the persons cap, pushing the full selection to the
// server on every change, and keeping the local view fresh by polling.
type SeatSession struct {
	client   *Client
	tourID   string
	busIndex int
	clientID string
	persons  int

	cache SelectionCache

	mu       sync.Mutex
	selected []string
	seatMap  *SeatMap
	seq      uint64

	onMapUpdate func(*SeatMap)
}

type SessionOption func(*SeatSession)

// WithSelectionCache attaches a cache that mirrors the selection and
// lets other observers watch it change.
func WithSelectionCache(cache SelectionCache) SessionOption {
	return func(s *SeatSession) { s.cache = cache }
}

// WithSeatMapCallback registers a callback invoked on every accepted
// seat map update.
func WithSeatMapCallback(fn func(*SeatMap)) SessionOption {
	return func(s *SeatSession) { s.onMapUpdate = fn }
}

func NewSeatSession(client *Client, tourID string, busIndex int, clientID string, persons int, opts ...SessionOption) *SeatSession {
	s := &SeatSession{
		client:   client,
		tourID:   tourID,
		busIndex: busIndex,
		clientID: clientID,
		persons:  persons,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selected returns a copy of the current selection.
func (s *SeatSession) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// SeatMap returns the last accepted seat map, or nil before the first
// fetch.
func (s *SeatSession) SeatMap() *SeatMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatMap
}

// ToggleSeat adds or removes a seat and immediately pushes the new
// selection to the server. Adding past the persons cap is a silent
// no-op. On a seat conflict the selection is rolled back and the seat
// map re-fetched so the caller sees who won.
func (s *SeatSession) ToggleSeat(ctx context.Context, seatID string) error {
	s.mu.Lock()
	previous := s.selected
	next := make([]string, 0, len(previous)+1)
	removed := false
	for _, id := range previous {
		if id == seatID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		if len(previous) >= s.persons {
			s.mu.Unlock()
			return nil
		}
		next = append(next, seatID)
	}
	s.selected = next
	s.mu.Unlock()

	reservation, err := s.client.ReplaceSeats(ctx, s.tourID, s.busIndex, s.clientID, next)
	if err != nil {
		s.mu.Lock()
		s.selected = previous
		s.mu.Unlock()
		if _, ok := err.(*ConflictError); ok {
			if refreshErr := s.Refresh(ctx); refreshErr != nil {
				return err
			}
		}
		return err
	}

	s.applySeats(reservation.SeatMap)
	s.publishSelection(next)
	return nil
}

// ClearSelection releases every reserved seat.
func (s *SeatSession) ClearSelection(ctx context.Context) error {
	s.mu.Lock()
	previous := s.selected
	s.selected = nil
	s.mu.Unlock()

	if _, err := s.client.ReplaceSeats(ctx, s.tourID, s.busIndex, s.clientID, nil); err != nil {
		s.mu.Lock()
		s.selected = previous
		s.mu.Unlock()
		return err
	}
	s.publishSelection(nil)
	return nil
}

// Refresh fetches the seat map once and applies it if it is not
// older than an already-applied response.
func (s *SeatSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	seq := s.seq + 1
	s.seq = seq
	s.mu.Unlock()

	seatMap, err := s.client.GetSeatMap(ctx, s.tourID, s.busIndex)
	if err != nil {
		return err
	}
	s.applyIfCurrent(seq, seatMap)
	return nil
}

// PollSeatMap re-fetches the seat map every few seconds until ctx is
// cancelled. Responses that complete out of order are dropped so a
// slow early fetch never overwrites a fresher map.
func (s *SeatSession) PollSeatMap(ctx context.Context) {
	ticker := time.NewTicker(seatMapPollInterval)
	defer ticker.Stop()

	_ = s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

func (s *SeatSession) applyIfCurrent(seq uint64, seatMap *SeatMap) {
	s.mu.Lock()
	if seq < s.seq {
		s.mu.Unlock()
		return
	}
	s.seatMap = seatMap
	callback := s.onMapUpdate
	s.mu.Unlock()

	if callback != nil {
		callback(seatMap)
	}
}

func (s *SeatSession) applySeats(seats []Seat) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	current := s.seatMap
	s.mu.Unlock()

	if current == nil {
		return
	}
	updated := *current
	updated.Seats = seats
	available := 0
	for _, seat := range seats {
		if seat.IsAvailable {
			available++
		}
	}
	updated.AvailableSeats = available
	s.applyIfCurrent(seq, &updated)
}

func (s *SeatSession) publishSelection(seats []string) {
	if s.cache != nil {
		s.cache.Replace(seats)
	}
}

// StatusWatcher polls a booking's status until it reaches a terminal
// state, invoking the notify callback exactly once when it does.
type StatusWatcher struct {
	client    *Client
	bookingID string

	mu       sync.Mutex
	latest   *BookingStatus
	notified bool

	onTerminal func(*BookingStatus)
	onUpdate   func(*BookingStatus)
}

type WatcherOption func(*StatusWatcher)

// WithTerminalCallback registers the one-time terminal notification.
func WithTerminalCallback(fn func(*BookingStatus)) WatcherOption {
	return func(w *StatusWatcher) { w.onTerminal = fn }
}

// WithStatusCallback registers a callback for every poll result,
// terminal or not.
func WithStatusCallback(fn func(*BookingStatus)) WatcherOption {
	return func(w *StatusWatcher) { w.onUpdate = fn }
}

func NewStatusWatcher(client *Client, bookingID string, opts ...WatcherOption) *StatusWatcher {
	w := &StatusWatcher{client: client, bookingID: bookingID}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Latest returns the last polled status, or nil before the first poll.
func (w *StatusWatcher) Latest() *BookingStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Poll fetches the status once and reports whether it is terminal.
func (w *StatusWatcher) Poll(ctx context.Context) (bool, error) {
	status, err := w.client.GetBookingStatus(ctx, w.bookingID)
	if err != nil {
		return false, err
	}
	return w.apply(status), nil
}

// Run polls until the booking reaches a terminal state or ctx is
// cancelled. Poll errors are transient; polling continues.
func (w *StatusWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	if terminal, err := w.Poll(ctx); err == nil && terminal {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal, err := w.Poll(ctx); err == nil && terminal {
				return
			}
		}
	}
}

func (w *StatusWatcher) apply(status *BookingStatus) bool {
	w.mu.Lock()
	w.latest = status
	terminal := status.IsTerminal()
	fireTerminal := terminal && !w.notified
	if fireTerminal {
		w.notified = true
	}
	onUpdate := w.onUpdate
	onTerminal := w.onTerminal
	w.mu.Unlock()

	if onUpdate != nil {
		onUpdate(status)
	}
	if fireTerminal && onTerminal != nil {
		onTerminal(status)
	}
	return terminal
}
