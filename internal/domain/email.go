package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template with the given data.
type EmailTemplateRenderer interface {
	Render(name string, data any) (subject, htmlBody, textBody string, err error)
}

// EventModerationEmailData holds data for the approval/rejection emails sent
// to an event's creator.
type EventModerationEmailData struct {
	Email       string
	CreatorName string
	EventTitle  string
	Reason      string // set for rejections
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEventApproved(ctx context.Context, data *EventModerationEmailData) error
	SendEventRejected(ctx context.Context, data *EventModerationEmailData) error
}
