// Package events fans domain events out to live consumers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/social-be/internal/models"
)

// Publisher delivers events to a consumer.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// New stamps a new event with an ID and the current time.
func New(eventType string, payload any) models.Event {
	return models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, models.Event) error { return nil }

// Multi publishes to every publisher, even when some of them fail.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, event models.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
