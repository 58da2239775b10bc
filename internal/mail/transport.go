package mail

import (
	"context"
	"fmt"

	"github.com/smartreach/agent/internal/model"
)

// replyFromName is the display name on automated customer responses.
const replyFromName = "Customer Service"

// Transport bundles the IMAP and SMTP sides of the campaign mailbox
// behind the operations the reply engine needs: search/fetch, mark
// read, in-thread reply delivery, and owner notification.
type Transport struct {
	imap  *IMAPClient
	smtp  SMTPConfig
	owner string
}

// NewTransport builds a transport from mailbox configuration and the
// resolved mailbox password.
func NewTransport(cfg model.MailboxConfig, owner, password string) *Transport {
	return &Transport{
		imap: NewIMAPClient(
			cfg.IMAPHost, cfg.IMAPPort,
			cfg.Username, password,
			cfg.TLS,
			cfg.Folder, cfg.WebmailLinkTemplate,
		),
		smtp: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.Username,
			Password: password,
			TLS:      cfg.TLS,
		},
		owner: owner,
	}
}

// ValidateConnection verifies the IMAP credentials.
func (t *Transport) ValidateConnection(ctx context.Context) error {
	return t.imap.ValidateConnection(ctx)
}

// FetchUnseenFrom returns unseen messages from any of the given
// addresses.
func (t *Transport) FetchUnseenFrom(
	ctx context.Context, addrs []string,
) ([]Inbound, error) {
	return t.imap.FetchUnseenFrom(ctx, addrs)
}

// MarkSeen flags a mailbox message as read.
func (t *Transport) MarkSeen(ctx context.Context, uid uint32) error {
	return t.imap.MarkSeen(ctx, uid)
}

// SendReply delivers an HTML response to a customer as an in-thread
// reply to the given message.
func (t *Transport) SendReply(
	_ context.Context,
	to, subject, htmlBody, inReplyTo string,
) error {
	err := sendHTML(
		t.smtp, replyFromName,
		to, replySubject(subject), htmlBody, inReplyTo,
	)
	if err != nil {
		return fmt.Errorf("sending reply to %s: %w", to, err)
	}
	return nil
}

// SendNotification delivers an HTML alert to the mailbox owner.
func (t *Transport) SendNotification(
	_ context.Context,
	subject, htmlBody string,
) error {
	err := sendHTML(t.smtp, "SmartReach Agent", t.owner, subject, htmlBody, "")
	if err != nil {
		return fmt.Errorf("sending notification to %s: %w", t.owner, err)
	}
	return nil
}

// SendCampaign delivers a campaign email under the given sender name.
func (t *Transport) SendCampaign(
	_ context.Context,
	fromName, to, subject, htmlBody string,
) error {
	if err := sendHTML(t.smtp, fromName, to, subject, htmlBody, ""); err != nil {
		return fmt.Errorf("sending campaign email to %s: %w", to, err)
	}
	return nil
}
