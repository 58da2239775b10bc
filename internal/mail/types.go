package mail

import "time"

// Inbound holds one message pulled from the mailbox during a discovery
// pass. From is the normalized (lower-cased) sender address.
type Inbound struct {
	UID       uint32
	MessageID string

	// InReplyTo is the in-thread marker; empty for fresh inbound mail
	// that is not a reply to a prior thread.
	InReplyTo string

	From     string
	Subject  string
	TextBody string
	HTMLBody string
	Date     time.Time

	// Link is a best-effort webmail deep link, empty when no link
	// template is configured.
	Link string
}

// Body returns the plain-text body, falling back to a stripped HTML
// rendering for HTML-only messages.
func (m Inbound) Body() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	return stripHTML(m.HTMLBody)
}

// SMTPConfig holds the SMTP server settings for outgoing mail.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	TLS      bool
}
