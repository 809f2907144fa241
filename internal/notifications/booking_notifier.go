package notifications

import (
	"context"
	"fmt"
	"log"

	"tourly/internal/bookings"
)

// BookingNotifier adapts the notification pipeline to the booking
// service's Notifier interface. Publish failures are logged, never
// surfaced: a booking must not fail because Kafka is down.
type BookingNotifier struct {
	service NotificationService
}

// NewBookingNotifier creates a notifier backed by the notification service
func NewBookingNotifier(service NotificationService) *BookingNotifier {
	return &BookingNotifier{service: service}
}

// NotifyBookingCreated publishes an acknowledgement email for a new booking
func (bn *BookingNotifier) NotifyBookingCreated(ctx context.Context, booking *bookings.Booking, tourName string) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCreated).
		WithRecipient(booking.CustomerEmail, booking.CustomerName).
		WithBookingContext(booking.ID, booking.BookingRef, tourName).
		WithSubject(fmt.Sprintf("Booking received - %s", booking.BookingRef)).
		WithTemplateData(map[string]interface{}{
			"persons":    booking.Persons,
			"expires_at": booking.ExpiresAt,
		}).
		Build()

	bn.publish(ctx, notification)
}

// NotifyBookingResolved publishes the outcome email once a booking
// reaches a terminal status
func (bn *BookingNotifier) NotifyBookingResolved(ctx context.Context, booking *bookings.Booking, tourName string) {
	var notType NotificationType
	var subject string

	switch bookings.Status(booking.Status) {
	case bookings.StatusApproved:
		notType = NotificationTypeBookingApproved
		subject = fmt.Sprintf("Booking confirmed - %s", booking.BookingRef)
	case bookings.StatusRejected:
		notType = NotificationTypeBookingRejected
		subject = fmt.Sprintf("Booking not approved - %s", booking.BookingRef)
	case bookings.StatusExpired:
		notType = NotificationTypeBookingExpired
		subject = fmt.Sprintf("Booking expired - %s", booking.BookingRef)
	default:
		log.Printf("No notification for booking %s in status %s", booking.BookingRef, booking.Status)
		return
	}

	notification := NewNotificationBuilder().
		WithType(notType).
		WithRecipient(booking.CustomerEmail, booking.CustomerName).
		WithBookingContext(booking.ID, booking.BookingRef, tourName).
		WithSubject(subject).
		Build()

	bn.publish(ctx, notification)
}

func (bn *BookingNotifier) publish(ctx context.Context, notification *EmailNotification) {
	if bn.service == nil {
		return
	}
	if err := bn.service.SendNotification(ctx, notification); err != nil {
		log.Printf("Failed to publish %s notification for %s: %v",
			notification.Type, notification.RecipientEmail, err)
	}
}
