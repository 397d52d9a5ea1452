package services

import (
	"context"

	"go.uber.org/zap"

	"portfolio/internal/models"
)

// ContactMessageCreated is the event type published for new contact messages.
const ContactMessageCreated = "contact_message.created"

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload any) error
}

// ContactEvent is the payload of a ContactMessageCreated event.
type ContactEvent struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Subject *string `json:"subject,omitempty"`
	Source  *string `json:"source,omitempty"`
}

// ContactService stores contact messages and announces them.
type ContactService struct {
	messages  *CollectionService[models.ContactMessage]
	publisher EventPublisher
	logger    *zap.Logger
}

// NewContactService creates a ContactService. publisher may be nil, in which
// case no events are published.
func NewContactService(messages *CollectionService[models.ContactMessage], publisher EventPublisher, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		messages:  messages,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit stores msg and returns its identifier. Publishing is best effort: a
// broker failure is logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) (string, error) {
	id, err := s.messages.Create(ctx, msg)
	if err != nil {
		return "", err
	}

	if s.publisher == nil {
		return id, nil
	}

	event := ContactEvent{
		ID:      id,
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Source:  msg.Source,
	}
	if err := s.publisher.PublishEvent(ctx, ContactMessageCreated, event); err != nil {
		s.logger.Warn("failed to publish contact message event", zap.String("id", id), zap.Error(err))
	}
	return id, nil
}
