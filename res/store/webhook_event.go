package store

import (
	"context"
	"time"
)

// WebhookEvent is an audit row for a processed payment-provider event. The
// unique provider event id makes webhook handling idempotent across retries.
type WebhookEvent struct {
	ID string `gorm:"primaryKey;size:50;unique"`

	ProviderEventID string `gorm:"size:256;not null;unique;index:idx_webhook_event_provider"`
	EventType       string `gorm:"size:100;not null"`

	ProcessedAt time.Time `gorm:"autoCreateTime;not null"`
}

// WebhookEventStore defines the data access interface for webhook audit rows
type WebhookEventStore interface {
	// Record inserts an audit row for the event. Returns false when the
	// event was already recorded (duplicate delivery).
	Record(ctx context.Context, id, providerEventID, eventType string) (bool, error)

	// Get retrieves an audit row by provider event id
	Get(ctx context.Context, providerEventID string) (*WebhookEvent, error)
}
