// Package amqp publishes and consumes the tracker's domain events over
// RabbitMQ. The API server publishes best-effort; the export worker is
// the consumer.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// EventHandler processes consumed events. Returning an error requeues
// the delivery.
type EventHandler interface {
	HandleExpenseCreated(ctx context.Context, msg *ExpenseCreatedMessage) error
	HandleBudgetUpdated(ctx context.Context, msg *BudgetUpdatedMessage) error
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseCreated announces a newly stored expense.
func (c *Client) PublishExpenseCreated(ctx context.Context, id int64) error {
	msg := NewExpenseCreatedMessage(id)
	if err := c.publish(ctx, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published expense created event",
		"id", id,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishBudgetUpdated announces a budget overwrite.
func (c *Client) PublishBudgetUpdated(ctx context.Context, annualCents, monthlyCents int64) error {
	msg := NewBudgetUpdatedMessage(annualCents, monthlyCents)
	if err := c.publish(ctx, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published budget updated event",
		"annual_cents", annualCents,
		"monthly_cents", monthlyCents,
		"exchange", c.exchangeName)
	return nil
}

func (c *Client) publish(ctx context.Context, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Consume reads events from the queue until ctx is cancelled, acking
// handled deliveries, requeueing on handler error, and dropping
// deliveries that cannot be decoded.
func (c *Client) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			if err := c.dispatch(ctx, delivery.Body, handler); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event", "error", err)
				delivery.Nack(false, true) // requeue
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, body []byte, handler EventHandler) error {
	kind, err := peekKind(body)
	if err != nil {
		// Undecodable payloads would loop forever on requeue; log and drop.
		slog.ErrorContext(ctx, "Dropping undecodable event", "error", err)
		return nil
	}

	switch kind {
	case KindExpenseCreated:
		var msg ExpenseCreatedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			slog.ErrorContext(ctx, "Dropping malformed expense event", "error", err)
			return nil
		}
		return handler.HandleExpenseCreated(ctx, &msg)
	case KindBudgetUpdated:
		var msg BudgetUpdatedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			slog.ErrorContext(ctx, "Dropping malformed budget event", "error", err)
			return nil
		}
		return handler.HandleBudgetUpdated(ctx, &msg)
	default:
		slog.WarnContext(ctx, "Dropping event of unknown kind", "kind", kind)
		return nil
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
