package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mashson/order-app/internal/dal/rabbitmq"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/streadway/amqp"
)

const QueueName = "coffee.order.created"

// AuditRabbitMQRepository publishes order-created events for auditing.
type AuditRabbitMQRepository struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       QueueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		client: client,
		queue:  queue,
	}
}

// LogOrderCreated publishes the created order to the audit queue.
func (r *AuditRabbitMQRepository) LogOrderCreated(_ context.Context, ord order.Order) error {
	payload, err := json.Marshal(ord)
	if err != nil {
		return fmt.Errorf("failed to marshal order for audit: %w", err)
	}

	return r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
			Timestamp:   time.Now(),
		},
	)
}
