package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const exchangeName = "ledger.events"

// RabbitMQPublisher announces operation events on a topic exchange with
// persistent delivery. Routing key is operation.accepted or
// operation.reverted.
type RabbitMQPublisher struct {
	channel *amqp.Channel
}

// NewRabbitMQPublisher declares the exchange and wraps the channel.
func NewRabbitMQPublisher(ch *amqp.Channel) (*RabbitMQPublisher, error) {
	err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &RabbitMQPublisher{channel: ch}, nil
}

func (p *RabbitMQPublisher) PublishOperationEvent(ctx context.Context, event OperationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := "operation.accepted"
	if event.Type == EventOperationReverted {
		routingKey = "operation.reverted"
	}

	err = p.channel.PublishWithContext(ctx,
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Info().
		Str("routing_key", routingKey).
		Str("operation_id", event.Operation.ID).
		Msg("operation event published")
	return nil
}
