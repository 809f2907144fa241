package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      string
	}{
		{"full window", now.Add(30 * time.Minute), "30:00"},
		{"ninety seconds", now.Add(90 * time.Second), "01:30"},
		{"one minute", now.Add(time.Minute), "01:00"},
		{"under a minute", now.Add(42 * time.Second), "00:42"},
		{"single second", now.Add(time.Second), "00:01"},
		{"partial second rounds down", now.Add(1500 * time.Millisecond), "00:01"},
		{"exactly now", now, "Expired"},
		{"in the past", now.Add(-time.Minute), "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimeLeft(tt.expiresAt, now))
		})
	}
}

func TestFormatTimeLeft_NeverOverstates(t *testing.T) {
	now := time.Now()
	// 29:59.9 left must display 29:59, not 30:00.
	assert.Equal(t, "29:59", FormatTimeLeft(now.Add(30*time.Minute-100*time.Millisecond), now))
}
