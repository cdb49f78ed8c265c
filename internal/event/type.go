package event

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	UserRegistered EventType = "user.registered"
	UserDeleted    EventType = "user.deleted"
)

const UserEventsExchange = "user-events"

// UserRegisteredEvent is published after a successful registration. The
// mailer consumes it and sends the confirmation email.
type UserRegisteredEvent struct {
	EventType  EventType `json:"eventType"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	ConfirmURL string    `json:"confirmUrl"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewUserRegisteredEvent(userID, name, email, confirmURL string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		EventType:  UserRegistered,
		UserID:     userID,
		Name:       name,
		Email:      email,
		ConfirmURL: confirmURL,
		Timestamp:  time.Now(),
	}
}

func (e *UserRegisteredEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// UserDeletedEvent is published after an account cascade deletion.
type UserDeletedEvent struct {
	EventType EventType `json:"eventType"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserDeletedEvent(userID, email string) *UserDeletedEvent {
	return &UserDeletedEvent{
		EventType: UserDeleted,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now(),
	}
}

func (e *UserDeletedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
