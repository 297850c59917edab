// Package notify delivers lead notifications over email (SES) and Slack
// incoming webhooks. Notification failures never fail lead processing; each
// channel is attempted independently and errors are logged.
package notify

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

// EmailSender sends an email message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SlackField is one field inside a Slack attachment.
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackAttachment is a Slack message attachment.
type SlackAttachment struct {
	Color  string       `json:"color"`
	Fields []SlackField `json:"fields"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

// SlackMessage is the incoming-webhook payload.
type SlackMessage struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackPoster posts a message to a Slack webhook.
type SlackPoster interface {
	Post(ctx context.Context, msg SlackMessage) error
}

// PriorityColor maps a lead priority to a Slack attachment color.
func PriorityColor(priority string) string {
	switch priority {
	case "High":
		return "good"
	case "Medium":
		return "warning"
	default:
		return "#cccccc"
	}
}
