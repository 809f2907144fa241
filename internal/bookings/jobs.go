package bookings

import (
	"context"
	"time"

	"tourly/internal/shared/config"
	"tourly/pkg/logger"
)

// ExpirySweeper is the safety net behind the lazy expiry on status
// reads: it periodically expires overdue pending bookings nobody is
// polling anymore, so their seats free up.
type ExpirySweeper struct {
	service  Service
	interval time.Duration
	batch    int
	done     chan struct{}
}

func NewExpirySweeper(service Service, cfg *config.Config) *ExpirySweeper {
	return &ExpirySweeper{
		service:  service,
		interval: cfg.Booking.ExpiryCheckInterval,
		batch:    cfg.Booking.ExpiryBatchSize,
		done:     make(chan struct{}),
	}
}

// Start launches the sweeper goroutine. It stops when ctx is cancelled
// or Stop is called.
func (sw *ExpirySweeper) Start(ctx context.Context) {
	go sw.run(ctx)
	logger.GetDefault().Info("booking expiry sweeper started", "interval", sw.interval.String(), "batch", sw.batch)
}

// Stop signals the sweeper to exit.
func (sw *ExpirySweeper) Stop() {
	close(sw.done)
	logger.GetDefault().Info("booking expiry sweeper stopped")
}

func (sw *ExpirySweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *ExpirySweeper) sweep(ctx context.Context) {
	expired, err := sw.service.ExpireDueBookings(ctx, sw.batch)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "booking expiry sweep failed", err, nil)
		return
	}
	if expired > 0 {
		logger.GetDefault().Info("expired overdue bookings", "count", expired)
	}
}
