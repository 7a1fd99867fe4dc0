package email

import "context"

// Attachment is an inline file, typically a rendered quote PDF.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error
}

// NoOpProvider is wired when SMTP is not configured so quote sending
// degrades to a status change instead of an error.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error {
	return nil
}
