package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusExpired.IsValid())

	assert.False(t, Status("cancelled").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	// Pending moves to exactly one terminal state.
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusPending.CanTransitionTo(StatusExpired))

	// Terminal states never move again.
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusExpired.CanTransitionTo(StatusPending))

	// Nothing transitions back to pending.
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
}

func TestBooking_ExpiryDue(t *testing.T) {
	now := time.Now()

	pending := &Booking{Status: string(StatusPending), ExpiresAt: now.Add(-time.Second)}
	assert.True(t, pending.ExpiryDue(now))

	notYet := &Booking{Status: string(StatusPending), ExpiresAt: now.Add(time.Second)}
	assert.False(t, notYet.ExpiryDue(now))

	atDeadline := &Booking{Status: string(StatusPending), ExpiresAt: now}
	assert.True(t, atDeadline.ExpiryDue(now))

	// Resolved bookings are never due, however old the deadline.
	approved := &Booking{Status: string(StatusApproved), ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, approved.ExpiryDue(now))
}
