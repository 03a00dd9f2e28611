package payment

import (
	"context"
)

// IntentRequest describes the payment to collect for an order
type IntentRequest struct {
	OrderID       string
	CustomerEmail string
	AmountDollars float64
	IsDeposit     bool
}

// Intent is the provider-side payment intent handed back to the client
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
}

// Event is a verified webhook event from the payment provider
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
	PaymentMethod   string
	FailureMessage  string
}

// Event types the webhook handler reacts to
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentService defines the interface for payment operations
type PaymentService interface {
	// CreateIntent creates a payment intent for the given order amount
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)

	// VerifyWebhook checks the webhook signature and decodes the event.
	// Returns an error when the signature does not match.
	VerifyWebhook(payload []byte, signatureHeader string) (*Event, error)
}
