package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/company-site-api/internal/models"
)

// ContactDelivery forwards a stored contact message to the sales inbox.
type ContactDelivery interface {
	Deliver(ctx context.Context, message models.ContactMessage) error
}

// LogContactDelivery is a basic provider that logs submissions.
type LogContactDelivery struct {
	logger zerolog.Logger
}

// NewLogContactDelivery constructs a logging provider.
func NewLogContactDelivery(logger zerolog.Logger) *LogContactDelivery {
	return &LogContactDelivery{logger: logger.With().Str("component", "contact_delivery").Logger()}
}

// Deliver logs the submission and returns nil to indicate success.
func (l *LogContactDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	l.logger.Info().
		Str("reference_id", message.ReferenceID.String()).
		Str("email", maskEmailAddress(message.Email)).
		Msg("contact message delivered to inbox")
	return nil
}

type contactEvent struct {
	ReferenceID string    `json:"reference_id"`
	MessageID   uint      `json:"message_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

const flushTimeout = 2 * time.Second

// NATSContactDelivery publishes contact messages to a NATS subject consumed
// by the notification workers.
type NATSContactDelivery struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSContactDelivery constructs a NATS backed provider.
func NewNATSContactDelivery(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSContactDelivery {
	if subject == "" {
		subject = "site.contact.submitted"
	}
	return &NATSContactDelivery{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "contact_delivery").Str("subject", subject).Logger(),
	}
}

// Deliver publishes the message and flushes so failures surface to the caller.
func (n *NATSContactDelivery) Deliver(ctx context.Context, message models.ContactMessage) error {
	payload, err := json.Marshal(contactEvent{
		ReferenceID: message.ReferenceID.String(),
		MessageID:   message.ID,
		Name:        message.Name,
		Email:       message.Email,
		Phone:       message.Phone,
		Subject:     message.Subject,
		Message:     message.Message,
		CreatedAt:   message.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		return err
	}
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return err
	}
	n.logger.Debug().Str("reference_id", message.ReferenceID.String()).Msg("contact message published")
	return nil
}
