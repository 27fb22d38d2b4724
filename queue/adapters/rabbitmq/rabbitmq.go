// Package rabbitmq implements the queue port on RabbitMQ for deployments
// where the ledger and the aggregator run in separate processes.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/config"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
)

// Queue implements queue.Queue on a RabbitMQ connection.
type Queue struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	cfg     *config.RabbitMQConfig
	logger  observability.Logger
	metrics observability.Metrics
}

var _ queue.Queue = (*Queue)(nil)

// New connects to RabbitMQ and declares the durable event queue.
func New(cfg *config.RabbitMQConfig, logger observability.Logger, metrics observability.Metrics) (*Queue, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info(context.Background(), "RabbitMQ queue initialized", observability.Fields{
		"queue": cfg.QueueName,
	})

	return &Queue{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (q *Queue) Publish(ctx context.Context, event queue.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		"",              // default exchange
		q.cfg.QueueName, // routing key
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.ID,
			Type:         event.Type,
		},
	)
	if err != nil {
		q.metrics.RecordError("queue_publish", "publish")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	q.metrics.RecordSuccess("queue_publish")
	return nil
}

// Consume starts a consumer and forwards deliveries as events. Malformed
// messages are rejected without requeue; everything else is acked once
// handed to the consumer channel.
func (q *Queue) Consume(ctx context.Context) (<-chan queue.Event, error) {
	deliveries, err := q.channel.Consume(
		q.cfg.QueueName,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	events := make(chan queue.Event)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var event queue.Event
				if err := json.Unmarshal(d.Body, &event); err != nil {
					q.logger.Error(ctx, "dropping malformed event", err, observability.Fields{
						"message_id": d.MessageId,
					})
					q.metrics.RecordError("queue_consume", "malformed")
					d.Nack(false, false)
					continue
				}

				select {
				case events <- event:
					d.Ack(false)
					q.metrics.RecordSuccess("queue_consume")
				case <-ctx.Done():
					d.Nack(false, true)
					return
				}
			}
		}
	}()

	return events, nil
}

func (q *Queue) Close() error {
	if err := q.channel.Close(); err != nil {
		q.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return q.conn.Close()
}
