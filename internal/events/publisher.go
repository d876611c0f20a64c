package events

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"kaamdham/infras/kafka"
	"kaamdham/infras/otel"
	"kaamdham/shared/constant"
	"kaamdham/shared/lifecycle"
	"kaamdham/shared/timezone"
)

// TransitionEvent records one successful lifecycle move for downstream
// consumers (notifications, analytics, settlement).
type TransitionEvent struct {
	Flow     lifecycle.Flow   `json:"flow"`
	EntityID string           `json:"entity_id"`
	From     lifecycle.Status `json:"from"`
	To       lifecycle.Status `json:"to"`
	Actor    string           `json:"actor"`
	At       time.Time        `json:"at"`
}

type Publisher interface {
	PublishTransition(ctx context.Context, flow lifecycle.Flow, entityID string, from, to lifecycle.Status, actor string)
}

type publisherImpl struct {
	kafka kafka.Client
	otel  otel.Otel
}

func NewPublisher(kafkaClient kafka.Client, ot otel.Otel) Publisher {
	return &publisherImpl{
		kafka: kafkaClient,
		otel:  ot,
	}
}

// PublishTransition implements Publisher. Delivery is best effort; a broker
// outage must never fail the state change that already committed.
func (p *publisherImpl) PublishTransition(ctx context.Context, flow lifecycle.Flow, entityID string, from, to lifecycle.Status, actor string) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishTransition")
	defer scope.End()

	event := TransitionEvent{
		Flow:     flow,
		EntityID: entityID,
		From:     from,
		To:       to,
		Actor:    actor,
		At:       timezone.Now(),
	}

	message := kafka.Message{
		Key:   entityID,
		Value: event,
	}

	if err := p.kafka.SendMessages(ctx, constant.KafkaTopicEngagementEvents, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("entityID", entityID).Msg("failed to publish transition event")
	}
}
