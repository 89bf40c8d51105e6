// Package notify implements the notification dispatcher: direct email to a
// single recipient and broadcast publish to an SNS topic. Both channels are
// independently toggle-able; a disabled channel logs the skipped message and
// reports success. Callers log failures and never let them affect the
// triggering operation.
package notify

import "context"

// DefaultSubject is used for broadcasts that do not set their own subject.
const DefaultSubject = "HealthCare Notification"

// Mailer delivers a direct message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// Broadcaster publishes a one-to-many message to a topic.
type Broadcaster interface {
	Publish(ctx context.Context, message, subject string) error
}
