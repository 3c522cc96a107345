// Package events publishes domain events to RabbitMQ for downstream
// consumers (notification senders, dashboards). Publishing is fire-and-forget
// and never blocks or fails a request.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PaymentQueue    = "payments.settled"
	CollectionQueue = "collections.completed"
)

type Publisher struct {
	channel *amqp.Channel
	log     *slog.Logger
}

func NewPublisher(ch *amqp.Channel, log *slog.Logger) *Publisher {
	return &Publisher{channel: ch, log: log}
}

// Setup declares the event queues.
func Setup(ch *amqp.Channel) error {
	for _, q := range []string{PaymentQueue, CollectionQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// Publish sends a JSON event to the named queue. A nil publisher or broker
// error is logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, queue string, event any) {
	if p == nil || p.channel == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal event", "queue", queue, "error", err)
		return
	}
	err = p.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		p.log.Error("publish event", "queue", queue, "error", err)
	}
}
