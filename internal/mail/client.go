// Package mail delivers review notifications through SendGrid.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Client sends email through the SendGrid API.
type Client struct {
	client *sendgrid.Client
}

// NewClient creates a new SendGrid client.
func NewClient(apiKey string) *Client {
	return &Client{client: sendgrid.NewSendClient(apiKey)}
}

// Send delivers a single HTML email.
func (c *Client) Send(ctx context.Context, from, to, replyTo, subject, htmlBody string) error {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail("", from))
	if replyTo != "" {
		message.SetReplyTo(sgmail.NewEmail("", replyTo))
	}
	message.Subject = subject

	personalization := sgmail.NewPersonalization()
	personalization.AddTos(sgmail.NewEmail("", to))
	message.AddPersonalizations(personalization)
	message.AddContent(sgmail.NewContent("text/html", htmlBody))

	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email to %s: sendgrid returned status %d: %s", to, resp.StatusCode, resp.Body)
	}

	return nil
}
