package sidemail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	netmail "net/mail"
	"strings"
	"time"

	"shiningstar-api/res/mail"
)

// SidemailService implements the MailService interface using Sidemail API
type SidemailService struct {
	apiKey        string
	apiBaseURL    string
	fromAddress   string
	officeAddress string
	logger        *log.Logger
	httpClient    *http.Client
}

// New creates a new Sidemail service instance
func New(apiKey, apiURL, fromAddress, officeAddress string, timeout time.Duration, logger *log.Logger) mail.MailService {
	return &SidemailService{
		apiKey:        apiKey,
		apiBaseURL:    apiURL,
		fromAddress:   fromAddress,
		officeAddress: officeAddress,
		logger:        logger,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// SidemailEmailPayload represents the payload for sending templated email via Sidemail API
type SidemailEmailPayload struct {
	FromAddress   string                 `json:"fromAddress"`
	ToAddress     string                 `json:"toAddress"`
	TemplateName  string                 `json:"templateName"`
	TemplateProps map[string]interface{} `json:"templateProps,omitempty"`
}

// SidemailEmailResponse represents the response from Sidemail email API
type SidemailEmailResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

// validateEmail validates an email address format using Go's built-in mail parser.
// Returns an error if the email address is malformed or empty.
func (s *SidemailService) validateEmail(email string) error {
	_, err := netmail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	return nil
}

// sanitizeInput sanitizes user input to prevent injection attacks by removing
// control characters, null bytes, and trimming whitespace.
func (s *SidemailService) sanitizeInput(input string) string {
	// Remove null bytes and control characters
	cleaned := strings.ReplaceAll(input, "\x00", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")
	return strings.TrimSpace(cleaned)
}

// sanitizeResponseBody sanitizes response body for safe inclusion in error messages
func (s *SidemailService) sanitizeResponseBody(body string) string {
	// Limit length to prevent log injection and excessive logging
	const maxLength = 200
	sanitized := s.sanitizeInput(body)

	if len(sanitized) > maxLength {
		return sanitized[:maxLength] + "..."
	}
	return sanitized
}

// SendContactMessage forwards a contact form submission to the office inbox.
// If no API key is configured, this method returns nil (graceful degradation).
func (s *SidemailService) SendContactMessage(ctx context.Context, name, email, phone, message string) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping contact message")
		return nil
	}

	// Validate the sender's email so the office can reply to it
	if err := s.validateEmail(email); err != nil {
		return fmt.Errorf("contact message failed: %w", err)
	}

	payload := SidemailEmailPayload{
		FromAddress:  s.fromAddress,
		ToAddress:    s.officeAddress,
		TemplateName: "contact-message",
		TemplateProps: map[string]interface{}{
			"name":    s.sanitizeInput(name),
			"email":   s.sanitizeInput(email),
			"phone":   s.sanitizeInput(phone),
			"message": strings.TrimSpace(message),
		},
	}

	return s.sendEmail(ctx, payload, fmt.Sprintf("contact message from %s", email))
}

// SendBookingConfirmation emails the customer after an order is placed.
// If no API key is configured, this method returns nil (graceful degradation).
func (s *SidemailService) SendBookingConfirmation(ctx context.Context, booking mail.BookingConfirmation) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping booking confirmation")
		return nil
	}

	if err := s.validateEmail(booking.CustomerEmail); err != nil {
		return fmt.Errorf("booking confirmation failed: %w", err)
	}

	payload := SidemailEmailPayload{
		FromAddress:  s.fromAddress,
		ToAddress:    booking.CustomerEmail,
		TemplateName: "booking-confirmation",
		TemplateProps: map[string]interface{}{
			"customerName": s.sanitizeInput(booking.CustomerName),
			"orderId":      booking.OrderID,
			"date":         booking.ScheduledDate.Format("Monday, January 2, 2006"),
			"startTime":    booking.StartTime,
			"endTime":      booking.EndTime,
			"services":     strings.Join(booking.ServiceNames, ", "),
			"total":        fmt.Sprintf("%.2f", booking.Total),
			"deposit":      fmt.Sprintf("%.2f", booking.Deposit),
		},
	}

	return s.sendEmail(ctx, payload, fmt.Sprintf("booking confirmation for order %s", booking.OrderID))
}

// SendPaymentReceipt emails the customer after a payment succeeds.
// If no API key is configured, this method returns nil (graceful degradation).
func (s *SidemailService) SendPaymentReceipt(ctx context.Context, receipt mail.PaymentReceipt) error {
	if s.apiKey == "" {
		s.logger.Printf("Sidemail API key not configured, skipping payment receipt")
		return nil
	}

	if err := s.validateEmail(receipt.CustomerEmail); err != nil {
		return fmt.Errorf("payment receipt failed: %w", err)
	}

	paymentKind := "balance"
	if receipt.IsDeposit {
		paymentKind = "deposit"
	}

	payload := SidemailEmailPayload{
		FromAddress:  s.fromAddress,
		ToAddress:    receipt.CustomerEmail,
		TemplateName: "payment-receipt",
		TemplateProps: map[string]interface{}{
			"customerName":  s.sanitizeInput(receipt.CustomerName),
			"orderId":       receipt.OrderID,
			"invoiceNumber": receipt.InvoiceNumber,
			"amount":        fmt.Sprintf("%.2f", receipt.Amount),
			"paymentKind":   paymentKind,
			"paidAt":        receipt.PaidAt.Format("January 2, 2006 15:04 MST"),
		},
	}

	return s.sendEmail(ctx, payload, fmt.Sprintf("payment receipt %s for order %s", receipt.InvoiceNumber, receipt.OrderID))
}

// sendEmail posts a templated email to the Sidemail API and validates the response
func (s *SidemailService) sendEmail(ctx context.Context, payload SidemailEmailPayload, operation string) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	url := fmt.Sprintf("%s/email/send", s.apiBaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	s.logger.Printf("[SIDEMAIL_EMAIL_RESPONSE] status=%d operation=%s body_length=%d", resp.StatusCode, operation, len(body))

	var response SidemailEmailResponse
	if err := json.Unmarshal(body, &response); err != nil {
		s.logger.Printf("Warning: Could not parse Sidemail email response: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sidemail email API returned status %d: %s", resp.StatusCode, s.sanitizeResponseBody(string(body)))
	}

	s.logger.Printf("[SIDEMAIL_EMAIL_SUCCESS] operation=%s status=%s", operation, response.Status)
	return nil
}
