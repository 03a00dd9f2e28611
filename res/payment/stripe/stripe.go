package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"shiningstar-api/res/payment"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// paymentService implements the PaymentService interface using the Stripe API
type paymentService struct {
	api           *client.API
	webhookSecret string
	logger        *log.Logger
}

// New creates a new Stripe payment service instance
func New(secretKey, webhookSecret string, logger *log.Logger) payment.PaymentService {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &paymentService{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateIntent creates a Stripe payment intent for the given order amount.
// The order id rides along as metadata so the webhook can find the order.
func (s *paymentService) CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	if req.AmountDollars <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %.2f", req.AmountDollars)
	}

	amountCents := int64(math.Round(req.AmountDollars * 100))

	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(amountCents),
		Currency: stripego.String(string(stripego.CurrencyUSD)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripego.String(req.CustomerEmail)
	}
	params.AddMetadata("order_id", req.OrderID)
	if req.IsDeposit {
		params.AddMetadata("payment_kind", "deposit")
	} else {
		params.AddMetadata("payment_kind", "balance")
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.Printf("Created payment intent %s for order %s (%d cents)", intent.ID, req.OrderID, amountCents)

	return &payment.Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.Amount,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header and decodes the event
func (s *paymentService) VerifyWebhook(payload []byte, signatureHeader string) (*payment.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	decoded := &payment.Event{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch event.Type {
	case stripego.EventTypePaymentIntentSucceeded, stripego.EventTypePaymentIntentPaymentFailed:
		var intent stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent from event %s: %w", event.ID, err)
		}

		decoded.PaymentIntentID = intent.ID
		if intent.PaymentMethod != nil {
			decoded.PaymentMethod = intent.PaymentMethod.ID
		}
		if intent.LastPaymentError != nil {
			decoded.FailureMessage = intent.LastPaymentError.Msg
		}
	}

	return decoded, nil
}
