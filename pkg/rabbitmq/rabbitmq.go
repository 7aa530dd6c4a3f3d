package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Event is the envelope of every inventory message.
type Event struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// NewClient connects to RabbitMQ and declares the inventory topic exchange.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Printf("RabbitMQ client connected and exchange %s declared.", cfg.Exchange)

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewEvent wraps payload in an Event envelope with a fresh id.
func NewEvent(name string, payload interface{}) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload to JSON: %w", name, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}

// Publish sends an inventory event to the exchange, routed by its name.
func (c *Client) Publish(ctx context.Context, name string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("not publishing %s: %w", name, err)
	}

	event, err := NewEvent(name, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event to JSON: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		c.exchange, // exchange
		name,       // routing key: the event name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         name,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event %s", name, event.ID)
	return nil
}

// Consume binds queue to every inventory event and hands each delivery to
// handler until ctx is done. Failed deliveries are nacked without requeue.
func (c *Client) Consume(ctx context.Context, queue string, handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}
	if err := c.channel.QueueBind(q.Name, "#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to %s: %w", q.Name, c.exchange, err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for inventory events on %s. To exit press CTRL+C", q.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			handleDelivery(msg, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	settle(&msg, msg.DeliveryTag, msg.Body, handler)
}

func settle(ack acknowledger, tag uint64, body []byte, handler func(Event) error) {
	var event Event
	err := json.Unmarshal(body, &event)
	if err == nil {
		err = handler(event)
	}
	if err != nil {
		log.Printf("Error processing message %d: %v", tag, err)
		// Malformed or unprocessable events would loop forever if requeued.
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", tag, nackErr)
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", tag, ackErr)
	}
}

// LogEvent is a handler that writes each event to the log.
func LogEvent(event Event) error {
	log.Printf("Received %s event %s at %s: %s", event.Name, event.ID, event.OccurredAt.Format(time.RFC3339), event.Payload)
	return nil
}
