package notifications

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationBuilder_Defaults(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCreated).
		WithRecipient("rahim@example.com", "Rahim Uddin").
		WithSubject("Booking received").
		Build()

	assert.NotEqual(t, uuid.Nil, notification.ID)
	assert.Equal(t, NotificationStatusPending, notification.Status)
	assert.Equal(t, NotificationPriorityMedium, notification.Priority)
	assert.Equal(t, 3, notification.MaxRetries)
	assert.Equal(t, "rahim@example.com", notification.RecipientEmail)
}

func TestGetDefaultPriority(t *testing.T) {
	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeBookingApproved))
	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeBookingRejected))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationTypeBookingCreated))
	assert.Equal(t, NotificationPriorityLow, GetDefaultPriority(NotificationTypeBookingExpired))
}

func TestGetPartitionKey_PerRecipientOrdering(t *testing.T) {
	first := NewNotificationBuilder().
		WithType(NotificationTypeBookingCreated).
		WithRecipient("rahim@example.com", "Rahim").
		Build()
	second := NewNotificationBuilder().
		WithType(NotificationTypeBookingApproved).
		WithRecipient("rahim@example.com", "Rahim").
		Build()

	assert.Equal(t, first.GetPartitionKey(), second.GetPartitionKey())
}

func TestEmailNotification_JSONRoundTrip(t *testing.T) {
	bookingID := uuid.New()
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingApproved).
		WithRecipient("rahim@example.com", "Rahim").
		WithSubject("Booking confirmed - TUR-20260301-ABCDEF").
		WithBookingContext(bookingID, "TUR-20260301-ABCDEF", "Sajek Valley").
		WithTemplateData(map[string]interface{}{"persons": 2}).
		Build()

	data, err := notification.ToJSON()
	require.NoError(t, err)

	var decoded EmailNotification
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, notification.ID, decoded.ID)
	assert.Equal(t, NotificationTypeBookingApproved, decoded.Type)
	assert.Equal(t, "TUR-20260301-ABCDEF", decoded.BookingRef)
	require.NotNil(t, decoded.BookingID)
	assert.Equal(t, bookingID, *decoded.BookingID)
}

func TestEmailNotification_Expiration(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	expired := NewNotificationBuilder().WithExpiration(&past).Build()
	assert.True(t, expired.IsExpired())

	live := NewNotificationBuilder().WithExpiration(&future).Build()
	assert.False(t, live.IsExpired())

	forever := NewNotificationBuilder().Build()
	assert.False(t, forever.IsExpired())
}

func TestEmailNotification_RetryLifecycle(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCreated).
		WithMaxRetries(2).
		Build()

	notification.MarkFailed(errors.New("smtp timeout"))
	assert.Equal(t, NotificationStatusFailed, notification.Status)
	require.NotNil(t, notification.LastError)
	assert.Equal(t, "smtp timeout", *notification.LastError)
	assert.True(t, notification.ShouldRetry())

	notification.IncrementRetry()
	assert.Equal(t, 1, notification.RetryCount)
	assert.Equal(t, NotificationStatusRetrying, notification.Status)

	notification.MarkFailed(errors.New("smtp timeout"))
	notification.IncrementRetry()
	assert.Equal(t, 2, notification.RetryCount)
	assert.Equal(t, NotificationStatusExpired, notification.Status)
	assert.False(t, notification.ShouldRetry())
}

func TestEmailNotification_MarkSent(t *testing.T) {
	notification := NewNotificationBuilder().Build()
	notification.MarkSent()

	assert.Equal(t, NotificationStatusSent, notification.Status)
	require.NotNil(t, notification.SentAt)
}
