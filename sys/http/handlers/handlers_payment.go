package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shiningstar-api/res/mail"
	"shiningstar-api/res/payment"
	"shiningstar-api/res/store"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

const webhookDedupTTL = 24 * time.Hour

type paymentIntentRequest struct {
	OrderID string `json:"orderId"`
	Kind    string `json:"kind"` // "deposit" (default) or "balance"
}

type paymentIntentResponse struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
}

// handleCreatePaymentIntent creates a Stripe intent for an order's deposit or
// remaining balance. The amount is always derived from the persisted order,
// never from the request.
func (h *Handler) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if h.PaymentService == nil {
		respondWithError(w, http.StatusServiceUnavailable, "PAYMENTS_DISABLED", "Payments are not configured")
		return
	}

	var req paymentIntentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Store.Orders().Get(r.Context(), req.OrderID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	if order.Status == store.OrderStatusCancelled {
		respondWithError(w, http.StatusConflict, "ORDER_CANCELLED", "Order has been cancelled")
		return
	}

	var amount float64
	isDeposit := req.Kind == "" || req.Kind == "deposit"
	if isDeposit {
		if order.DepositPaid {
			respondWithError(w, http.StatusConflict, "ALREADY_PAID", "Deposit already paid")
			return
		}
		amount = order.DepositAmount
	} else {
		if order.FullyPaid {
			respondWithError(w, http.StatusConflict, "ALREADY_PAID", "Order already paid in full")
			return
		}
		amount = order.Total - order.DepositAmount
		if !order.DepositPaid {
			amount = order.Total
		}
	}

	customer, err := h.Store.Customers().Get(r.Context(), order.CustomerID)
	if err != nil {
		h.Logger.Printf("Error loading customer %s for payment intent: %s", order.CustomerID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create payment intent")
		return
	}

	intent, err := h.PaymentService.CreateIntent(r.Context(), payment.IntentRequest{
		OrderID:       order.ID,
		CustomerEmail: customer.Email,
		AmountDollars: amount,
		IsDeposit:     isDeposit,
	})
	if err != nil {
		h.Logger.Printf("Error creating payment intent for order %s: %s", order.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not create payment intent")
		return
	}

	if err := h.Store.Orders().AttachPaymentIntent(r.Context(), order.ID, intent.ID); err != nil {
		h.Logger.Printf("Error attaching payment intent %s to order %s: %s", intent.ID, order.ID, err)
	}

	respondWithJSON(w, http.StatusOK, paymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
	})
}

// handleStripeWebhook verifies the signature, claims the event exactly once
// (Redis guard plus unique audit row), and advances the order's payment state.
func (h *Handler) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.PaymentService == nil {
		respondWithError(w, http.StatusServiceUnavailable, "PAYMENTS_DISABLED", "Payments are not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "Could not read request body")
		return
	}

	event, err := h.PaymentService.VerifyWebhook(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.Logger.Printf("Webhook signature verification failed: %s", err)
		respondWithError(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
		return
	}

	ctx := r.Context()

	// Fast cross-instance dedup; the audit row below is the durable guard
	if h.Deduper != nil {
		claimed, err := h.Deduper.MarkOnce(ctx, "stripe:"+event.ID, webhookDedupTTL)
		if err != nil {
			h.Logger.Printf("Webhook dedup guard unavailable: %s", err)
		} else if !claimed {
			respondWithJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
			return
		}
	}

	recorded, err := h.Store.WebhookEvents().Record(ctx, uuid.New().String(), event.ID, event.Type)
	if err != nil {
		h.Logger.Printf("Error recording webhook event %s: %s", event.ID, err)
		respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not process event")
		return
	}
	if !recorded {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		if err := h.applySuccessfulPayment(r, event); err != nil {
			h.Logger.Printf("Error applying payment for event %s: %s", event.ID, err)
			respondWithError(w, http.StatusInternalServerError, "INTERNAL", "Could not process event")
			return
		}
	case payment.EventPaymentFailed:
		order, err := h.Store.Orders().GetByPaymentIntent(ctx, event.PaymentIntentID)
		orderID := "unknown"
		if err == nil {
			orderID = order.ID
		}
		h.Logger.Printf("Payment failed for order %s (intent %s): %s", orderID, event.PaymentIntentID, event.FailureMessage)
		if h.NotificationService != nil {
			if err := h.NotificationService.NotifyPaymentFailure(ctx, orderID, event.PaymentIntentID, event.FailureMessage); err != nil {
				h.Logger.Printf("Warning: Failed to send payment failure notification: %v", err)
			}
		}
	default:
		h.Logger.Printf("Ignoring webhook event type %s", event.Type)
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// applySuccessfulPayment marks the order's deposit or balance as paid and
// issues the matching invoice + receipt
func (h *Handler) applySuccessfulPayment(r *http.Request, event *payment.Event) error {
	ctx := r.Context()

	order, err := h.Store.Orders().GetByPaymentIntent(ctx, event.PaymentIntentID)
	if err != nil {
		return fmt.Errorf("no order for payment intent %s: %w", event.PaymentIntentID, err)
	}

	isDeposit := !order.DepositPaid
	var amount float64
	if isDeposit {
		amount = order.DepositAmount
		if err := h.Store.Orders().MarkDepositPaid(ctx, order.ID, event.PaymentIntentID); err != nil {
			return err
		}
	} else {
		amount = order.Total - order.DepositAmount
		if err := h.Store.Orders().MarkFullyPaid(ctx, order.ID, event.PaymentIntentID); err != nil {
			return err
		}
	}

	now := time.Now()
	invoice := &store.Invoice{
		ID:                    uuid.New().String(),
		InvoiceNumber:         fmt.Sprintf("INV-%d-%s", now.Year(), strings.ToUpper(xid.New().String())),
		CustomerID:            order.CustomerID,
		OrderID:               order.ID,
		Status:                store.InvoiceStatusPaid,
		Subtotal:              order.Subtotal,
		Tax:                   order.Tax,
		Discount:              order.Discount,
		Total:                 amount,
		IsDeposit:             isDeposit,
		PaymentMethod:         event.PaymentMethod,
		StripePaymentIntentID: &event.PaymentIntentID,
		IssueDate:             now,
		DueDate:               now,
		PaidDate:              &now,
	}
	if err := h.Store.Invoices().Create(ctx, invoice); err != nil {
		return fmt.Errorf("failed to create invoice for order %s: %w", order.ID, err)
	}

	if h.MailService != nil {
		customer, err := h.Store.Customers().Get(ctx, order.CustomerID)
		if err != nil {
			h.Logger.Printf("Warning: Could not load customer %s for receipt: %v", order.CustomerID, err)
			return nil
		}
		receipt := mail.PaymentReceipt{
			CustomerEmail: customer.Email,
			CustomerName:  customer.FirstName,
			OrderID:       order.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Amount:        amount,
			IsDeposit:     isDeposit,
			PaidAt:        now,
		}
		if err := h.MailService.SendPaymentReceipt(ctx, receipt); err != nil {
			h.Logger.Printf("Warning: Failed to send receipt for invoice %s: %v", invoice.InvoiceNumber, err)
		}
	}

	return nil
}
