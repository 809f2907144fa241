package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/internal/shared/config"
)

func TestExpirySweeper_ExpiresOverdueBookings(t *testing.T) {
	h := setupBookingTest(t)
	ctx := context.Background()

	created, err := h.service.CreateBooking(ctx, validRequest(h))
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)

	sweeper := NewExpirySweeper(h.service, &config.Config{
		Booking: config.BookingConfig{
			ExpiryCheckInterval: 10 * time.Millisecond,
			ExpiryBatchSize:     10,
		},
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	require.Eventually(t, func() bool {
		status, err := h.service.GetBooking(ctx, created.ID)
		return err == nil && status.Status == string(StatusExpired)
	}, time.Second, 10*time.Millisecond)
}

func TestExpirySweeper_StopsOnContextCancel(t *testing.T) {
	h := setupBookingTest(t)
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := NewExpirySweeper(h.service, &config.Config{
		Booking: config.BookingConfig{
			ExpiryCheckInterval: 5 * time.Millisecond,
			ExpiryBatchSize:     10,
		},
	})
	sweeper.Start(ctx)
	cancel()

	// A booking going overdue after cancellation stays pending.
	created, err := h.service.CreateBooking(ctx, validRequest(h))
	require.NoError(t, err)
	h.now = h.now.Add(time.Hour)

	time.Sleep(50 * time.Millisecond)
	booking, err := h.service.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StatusPending), booking.Status)
}
