package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"shiningstar-api/res/notification"
)

// notificationService implements the NotificationService interface
type notificationService struct {
	webhookURL string
	httpClient *http.Client
	logger     *log.Logger
}

// slackMessage represents the structure of a Slack message
type slackMessage struct {
	Text string `json:"text"`
}

// New creates a new NotificationService instance
func New(webhookURL string, timeout time.Duration, logger *log.Logger) notification.NotificationService {
	return &notificationService{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// NotifyNewOrder sends a notification to Slack when a customer books a cleaning
func (s *notificationService) NotifyNewOrder(ctx context.Context, orderID, customerName string, scheduledDate time.Time, startTime string, total float64) error {
	// If webhook URL is not configured, skip notification silently
	if s.webhookURL == "" {
		s.logger.Printf("Slack webhook URL not configured, skipping notification")
		return nil
	}

	message := slackMessage{
		Text: fmt.Sprintf(":sparkles: New booking: %s on %s at %s ($%.2f) - Order ID: %s",
			customerName, scheduledDate.Format("Mon Jan 2"), startTime, total, orderID),
	}

	return s.sendToSlack(ctx, message)
}

// NotifyContactRequest sends a notification to Slack when the contact form is submitted
func (s *notificationService) NotifyContactRequest(ctx context.Context, name, email, message string) error {
	// If webhook URL is not configured, skip notification silently
	if s.webhookURL == "" {
		s.logger.Printf("Slack webhook URL not configured, skipping contact notification")
		return nil
	}

	slackMsg := slackMessage{
		Text: fmt.Sprintf(":speech_balloon: Contact Request\n*From:* %s (%s)\n*Message:* %s", name, email, message),
	}

	return s.sendToSlack(ctx, slackMsg)
}

// NotifyPaymentFailure sends a notification to Slack when a payment attempt fails
func (s *notificationService) NotifyPaymentFailure(ctx context.Context, orderID, paymentIntentID, reason string) error {
	// If webhook URL is not configured, skip notification silently
	if s.webhookURL == "" {
		s.logger.Printf("Slack webhook URL not configured, skipping payment failure notification")
		return nil
	}

	slackMsg := slackMessage{
		Text: fmt.Sprintf(":warning: Payment failed for order %s (intent: %s): %s", orderID, paymentIntentID, reason),
	}

	return s.sendToSlack(ctx, slackMsg)
}

// sendToSlack is a helper method to send messages to Slack
func (s *notificationService) sendToSlack(ctx context.Context, message slackMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack API returned non-OK status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.Printf("Successfully sent Slack message")
	return nil
}
