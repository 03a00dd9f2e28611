package notification

import (
	"context"
	"time"
)

// NotificationService defines the interface for notification operations
type NotificationService interface {
	// NotifyNewOrder sends a notification when a customer books a cleaning
	NotifyNewOrder(ctx context.Context, orderID, customerName string, scheduledDate time.Time, startTime string, total float64) error
	// NotifyContactRequest sends a notification when the contact form is submitted
	NotifyContactRequest(ctx context.Context, name, email, message string) error
	// NotifyPaymentFailure sends a notification when a payment attempt fails
	NotifyPaymentFailure(ctx context.Context, orderID, paymentIntentID, reason string) error
}
