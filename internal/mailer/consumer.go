package mailer

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"devhub/internal/event"

	amqp "github.com/rabbitmq/amqp091-go"
)

const queueName = "devhub-mailer"

// Consumer listens on the user-events exchange and sends the confirmation
// mail for each registration. When the broker drops the connection it
// redials with backoff and resumes consuming.
type Consumer struct {
	connectionURI string
	conn          *amqp.Connection
	channel       *amqp.Channel
	sender        *Sender
	shutdown      chan struct{}
	wg            sync.WaitGroup
	enabled       bool
}

// NewConsumer returns a disabled consumer when the URI is empty, so the
// application runs without a broker.
func NewConsumer(rabbitURI string, sender *Sender) (*Consumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, confirmation mail consumption is disabled")
		return &Consumer{
			sender:   sender,
			shutdown: make(chan struct{}),
			enabled:  false,
		}, nil
	}

	c := &Consumer{
		connectionURI: rabbitURI,
		sender:        sender,
		shutdown:      make(chan struct{}),
		enabled:       true,
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Consumer) connect() error {
	conn, err := amqp.Dial(c.connectionURI)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := channel.Qos(10, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

// subscribe declares the exchange, queue and binding, and opens the
// delivery stream. It runs on the initial start and again after every
// reconnect, so the topology survives a broker restart.
func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	err := c.channel.ExchangeDeclare(
		event.UserEventsExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		queue.Name,
		string(event.UserRegistered),
		event.UserEventsExchange,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}

func (c *Consumer) Start() error {
	if !c.enabled {
		log.Println("Mail consumption is disabled, not starting consumer")
		return nil
	}

	deliveries, err := c.subscribe()
	if err != nil {
		return err
	}

	c.wg.Add(1)
	go c.consume(deliveries)

	log.Println("Mailer consumer started")
	return nil
}

func (c *Consumer) consume(deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-c.shutdown:
			return
		case delivery, ok := <-deliveries:
			if !ok {
				if c.isShutdown() {
					return
				}
				log.Println("Mailer delivery channel closed, attempting to reconnect...")
				next, ok := c.reconnect()
				if !ok {
					return
				}
				deliveries = next
				continue
			}
			c.handle(delivery)
		}
	}
}

// reconnect redials the broker until it succeeds or the consumer is
// closed. It reports false only on shutdown.
func (c *Consumer) reconnect() (<-chan amqp.Delivery, bool) {
	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-c.shutdown:
			return nil, false
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}

		if c.channel != nil {
			c.channel.Close()
		}
		if c.conn != nil {
			c.conn.Close()
		}

		if err := c.connect(); err != nil {
			log.Printf("Failed to reconnect mailer consumer: %v", err)
			continue
		}

		deliveries, err := c.subscribe()
		if err != nil {
			log.Printf("Failed to resubscribe mailer consumer: %v", err)
			continue
		}

		log.Println("Mailer consumer reconnected")
		return deliveries, true
	}
}

func (c *Consumer) isShutdown() bool {
	select {
	case <-c.shutdown:
		return true
	default:
		return false
	}
}

func (c *Consumer) handle(delivery amqp.Delivery) {
	var registered event.UserRegisteredEvent
	if err := json.Unmarshal(delivery.Body, &registered); err != nil {
		log.Printf("Failed to decode user registered event: %v", err)
		delivery.Nack(false, false)
		return
	}

	if err := c.sender.SendConfirmation(registered.Name, registered.Email, registered.ConfirmURL); err != nil {
		log.Printf("Failed to send confirmation mail to %s: %v", registered.Email, err)
		// Requeue once; the broker redelivers until the mail goes out or
		// the message is dead-lettered by policy.
		delivery.Nack(false, !delivery.Redelivered)
		return
	}

	log.Printf("Confirmation mail sent to %s", registered.Email)
	delivery.Ack(false)
}

func (c *Consumer) Close() error {
	close(c.shutdown)
	c.wg.Wait()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
