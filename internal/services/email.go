package services

import (
	"context"
	"fmt"

	"speaks/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendEventApproved notifies an event's creator that the listing went live,
// using the "event_approved" template.
func (s *emailService) SendEventApproved(ctx context.Context, data *domain.EventModerationEmailData) error {
	if data == nil {
		return fmt.Errorf("event approved email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_approved", data)
	if err != nil {
		return fmt.Errorf("failed to render event_approved template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event approved email: %w", err)
	}
	return nil
}

// SendEventRejected notifies an event's creator about a rejection, including
// the moderator's reason, using the "event_rejected" template.
func (s *emailService) SendEventRejected(ctx context.Context, data *domain.EventModerationEmailData) error {
	if data == nil {
		return fmt.Errorf("event rejected email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_rejected", data)
	if err != nil {
		return fmt.Errorf("failed to render event_rejected template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event rejected email: %w", err)
	}
	return nil
}
