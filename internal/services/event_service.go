package services

import (
	"context"

	"github.com/isdelr/social-be/internal/events"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Emit(ctx context.Context, eventType string, payload any)
}

// EventService hands domain events to a publisher. Delivery is best effort:
// a failed publish is logged and never fails the write that caused it.
type EventService struct {
	publisher events.Publisher
}

// NewEventService creates a new EventService. A nil publisher discards events.
func NewEventService(publisher events.Publisher) *EventService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &EventService{publisher: publisher}
}

// Emit publishes a new event of the given type.
func (s *EventService) Emit(ctx context.Context, eventType string, payload any) {
	event := events.New(eventType, payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Str("event_id", event.ID).Msg("Failed to publish event")
	}
}
