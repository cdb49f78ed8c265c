package event

import (
	"context"
	"log"
)

type Publisher interface {
	PublishUserRegistered(ctx context.Context, userID, name, email, confirmURL string) error
	PublishUserDeleted(ctx context.Context, userID, email string) error

	// Close closes the publisher and releases resources.
	Close() error
}

type EventPublisher struct {
	rabbitMQ *RabbitMQClient
	enabled  bool
}

// NewDisabledPublisher returns a publisher that drops every event. Callers
// fall back to it when the broker is unreachable at startup, so services
// never hold a nil publisher.
func NewDisabledPublisher() *EventPublisher {
	return &EventPublisher{enabled: false}
}

// NewEventPublisher returns a disabled no-op publisher when the URI is
// empty, so the application runs without a broker.
func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return NewDisabledPublisher(), nil
	}

	client, err := NewRabbitMQClient(rabbitURI)
	if err != nil {
		return nil, err
	}

	if err := client.SetupExchanges(); err != nil {
		client.Close()
		return nil, err
	}

	return &EventPublisher{
		rabbitMQ: client,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) PublishUserRegistered(ctx context.Context, userID, name, email, confirmURL string) error {
	if !p.enabled {
		log.Println("Event publishing is disabled, skipping UserRegistered event")
		return nil
	}

	eventData, err := NewUserRegisteredEvent(userID, name, email, confirmURL).ToJSON()
	if err != nil {
		return err
	}

	if err := p.rabbitMQ.PublishEvent(UserEventsExchange, string(UserRegistered), eventData); err != nil {
		return err
	}

	log.Printf("Published UserRegistered event for user ID: %s", userID)
	return nil
}

func (p *EventPublisher) PublishUserDeleted(ctx context.Context, userID, email string) error {
	if !p.enabled {
		log.Println("Event publishing is disabled, skipping UserDeleted event")
		return nil
	}

	eventData, err := NewUserDeletedEvent(userID, email).ToJSON()
	if err != nil {
		return err
	}

	if err := p.rabbitMQ.PublishEvent(UserEventsExchange, string(UserDeleted), eventData); err != nil {
		return err
	}

	log.Printf("Published UserDeleted event for user ID: %s", userID)
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled || p.rabbitMQ == nil {
		return nil
	}
	return p.rabbitMQ.Close()
}
