package postgresql

import (
	"context"
	"errors"

	"shiningstar-api/res/store"

	"gorm.io/gorm"
)

type webhookEventStore struct {
	*storeImpl
}

func NewWebhookEventStore(rootStore *storeImpl) *webhookEventStore {
	return &webhookEventStore{storeImpl: rootStore}
}

// Record inserts the audit row. The unique index on provider_event_id turns a
// redelivered event into a duplicate key error, reported as ok=false so the
// caller can skip reprocessing.
func (ws *webhookEventStore) Record(ctx context.Context, id, providerEventID, eventType string) (bool, error) {
	event := &store.WebhookEvent{
		ID:              id,
		ProviderEventID: providerEventID,
		EventType:       eventType,
	}

	result := ws.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func (ws *webhookEventStore) Get(ctx context.Context, providerEventID string) (*store.WebhookEvent, error) {
	var event store.WebhookEvent
	result := ws.db.WithContext(ctx).Where("provider_event_id = ?", providerEventID).First(&event)
	if result.Error != nil {
		return nil, result.Error
	}
	return &event, nil
}
