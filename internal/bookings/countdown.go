package bookings

import (
	"fmt"
	"time"
)

// FormatTimeLeft renders the remaining life of a pending booking as a
// zero-padded "MM:SS" countdown, or "Expired" once the deadline has
// passed. Partial seconds round down so the display never overstates
// the time left.
func FormatTimeLeft(expiresAt, now time.Time) string {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}

	totalSeconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
