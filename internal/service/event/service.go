package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/pkg/messaging"
	"github.com/medictrans/oncall-api/pkg/metrics"
)

const publishTimeout = 2 * time.Second

type EventService struct {
	broker  messaging.Broker
	metrics *metrics.Metrics
}

// NewEventService returns an Emitter over broker. A nil broker disables
// publishing; m may be nil.
func NewEventService(broker messaging.Broker, m *metrics.Metrics) *EventService {
	return &EventService{
		broker:  broker,
		metrics: m,
	}
}

func (s *EventService) Emit(ctx context.Context, eventType Type, payload interface{}) {
	if s.broker == nil {
		return
	}

	evt := &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	channel := ChannelFor(eventType)

	// The request may finish before the broker answers.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.broker.Publish(ctx, channel, evt)
	if s.metrics != nil {
		s.metrics.BrokerPublishes.WithLabelValues(channel, metrics.Status(err)).Inc()
	}
	if err != nil {
		log.Error().Err(err).
			Str("event_type", string(eventType)).
			Str("event_id", evt.ID).
			Msg("failed to publish event")
	}
}

// ChannelFor routes mail notifications to the relay channel and everything
// else to the general events channel.
func ChannelFor(eventType Type) string {
	if eventType == MailQueued {
		return messaging.ChannelMailQueued
	}
	return messaging.ChannelEvents
}

var _ Emitter = (*EventService)(nil)
