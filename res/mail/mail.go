package mail

import (
	"context"
	"time"
)

// MailService defines the interface for email operations
type MailService interface {
	// SendContactMessage forwards a contact form submission to the office inbox
	SendContactMessage(ctx context.Context, name, email, phone, message string) error

	// SendBookingConfirmation emails the customer after an order is placed
	SendBookingConfirmation(ctx context.Context, booking BookingConfirmation) error

	// SendPaymentReceipt emails the customer after a payment succeeds
	SendPaymentReceipt(ctx context.Context, receipt PaymentReceipt) error
}

// BookingConfirmation carries the details shown in the confirmation email
type BookingConfirmation struct {
	CustomerEmail string
	CustomerName  string
	OrderID       string
	ScheduledDate time.Time
	StartTime     string
	EndTime       string
	ServiceNames  []string
	Total         float64
	Deposit       float64
}

// PaymentReceipt carries the details shown in the receipt email
type PaymentReceipt struct {
	CustomerEmail string
	CustomerName  string
	OrderID       string
	InvoiceNumber string
	Amount        float64
	IsDeposit     bool
	PaidAt        time.Time
}
