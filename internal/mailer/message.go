package mailer

import "context"

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one outgoing email. HTML is optional; when set it is sent as
// an alternative to Text.
type Message struct {
	FromName    string
	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
