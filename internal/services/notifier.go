package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"alfredoptarigan/ats-analyzer/internal/models"
)

const SessionUpdatesExchange = "session_updates"

type SessionUpdate struct {
	SessionID string               `json:"session_id"`
	Mode      models.Mode          `json:"mode"`
	Status    models.SessionStatus `json:"status"`
	Message   string               `json:"message,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// SessionNotifier pushes session status changes to interested listeners.
type SessionNotifier interface {
	Publish(sessionID uuid.UUID, update SessionUpdate) error
	Close() error
}

type amqpNotifier struct {
	conn *amqp.Connection
}

// NewAMQPNotifier dials RabbitMQ and declares the session_updates topic
// exchange.
func NewAMQPNotifier(url string) (SessionNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(SessionUpdatesExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", SessionUpdatesExchange, err)
	}

	log.Println("✅ Connected to RabbitMQ")
	return &amqpNotifier{conn: conn}, nil
}

func (n *amqpNotifier) Publish(sessionID uuid.UUID, update SessionUpdate) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode session update: %w", err)
	}

	return ch.Publish(
		SessionUpdatesExchange,
		RoutingKey(sessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   update.Timestamp,
			Body:        body,
		},
	)
}

func (n *amqpNotifier) Close() error {
	return n.conn.Close()
}

func RoutingKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session.%s", sessionID)
}

type nopNotifier struct{}

// NewNopNotifier returns a notifier that drops every update.
func NewNopNotifier() SessionNotifier {
	return nopNotifier{}
}

func (nopNotifier) Publish(uuid.UUID, SessionUpdate) error { return nil }

func (nopNotifier) Close() error { return nil }
