package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	gomail "github.com/emersion/go-message/mail"
)

// AuthError indicates that mailbox authentication has failed.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "mailbox auth error: " + e.Message
}

// IMAPClient wraps go-imap v2 for connecting to and querying the
// campaign mailbox.
type IMAPClient struct {
	host         string
	port         string
	username     string
	password     string
	tls          bool
	folder       string
	linkTemplate string
}

// NewIMAPClient creates a new IMAP client configuration. linkTemplate
// is an optional fmt template turning a Message-ID into a webmail deep
// link.
func NewIMAPClient(
	host, port, username, password string,
	useTLS bool,
	folder, linkTemplate string,
) *IMAPClient {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPClient{
		host:         host,
		port:         port,
		username:     username,
		password:     password,
		tls:          useTLS,
		folder:       folder,
		linkTemplate: linkTemplate,
	}
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (c *IMAPClient) Connect(
	_ context.Context,
) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Message: fmt.Sprintf(
				"authentication failed for %s: %v", c.username, err,
			),
		}
	}

	return client, nil
}

// ValidateConnection verifies credentials by connecting,
// authenticating, and selecting the configured folder.
func (c *IMAPClient) ValidateConnection(ctx context.Context) error {
	client, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(c.folder, nil).Wait(); err != nil {
		return fmt.Errorf("selecting %s: %w", c.folder, err)
	}
	return nil
}

// FetchUnseenFrom searches the configured folder for unseen messages
// from any of the given addresses and returns them with parsed bodies.
// An empty address list is a no-op.
func (c *IMAPClient) FetchUnseenFrom(
	ctx context.Context, addrs []string,
) ([]Inbound, error) {
	criteria := unseenFromCriteria(addrs)
	if criteria == nil {
		return nil, nil
	}

	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(c.folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", c.folder, err)
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)

	var messages []Inbound
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		in := c.inboundFromBuffer(buf, bodySection)
		messages = append(messages, in)
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching messages: %w", err)
	}

	return messages, nil
}

// MarkSeen adds the \Seen flag to a message so later discovery passes
// skip it.
func (c *IMAPClient) MarkSeen(ctx context.Context, uid uint32) error {
	client, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(c.folder, nil).Wait(); err != nil {
		return fmt.Errorf("selecting %s: %w", c.folder, err)
	}

	uidSet := imap.UIDSetNum(imap.UID(uid))

	storeCmd := client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)

	return storeCmd.Close()
}

// inboundFromBuffer extracts an Inbound from a FetchMessageBuffer.
func (c *IMAPClient) inboundFromBuffer(
	buf *imapclient.FetchMessageBuffer,
	bodySection *imap.FetchItemBodySection,
) Inbound {
	in := Inbound{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		in.MessageID = buf.Envelope.MessageID
		in.Subject = buf.Envelope.Subject
		in.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			in.From = strings.ToLower(buf.Envelope.From[0].Addr())
		}
	}

	if rawBody := buf.FindBodySection(bodySection); rawBody != nil {
		textBody, htmlBody, inReplyTo := parseMessage(rawBody)
		in.TextBody = textBody
		in.HTMLBody = htmlBody
		in.InReplyTo = inReplyTo
	}

	in.Link = c.messageLink(in.MessageID)

	return in
}

// messageLink renders the webmail deep link for a Message-ID, or empty
// when no template is configured.
func (c *IMAPClient) messageLink(messageID string) string {
	if c.linkTemplate == "" || messageID == "" {
		return ""
	}
	return fmt.Sprintf(c.linkTemplate, strings.Trim(messageID, "<>"))
}

// parseMessage parses a raw RFC 2822 message using go-message and
// extracts the text/plain body, text/html body, and the In-Reply-To
// header.
func parseMessage(raw []byte) (textBody, htmlBody, inReplyTo string) {
	reader := bytes.NewReader(raw)

	mr, err := gomail.CreateReader(reader)
	if err != nil {
		// If parsing fails, try treating the whole thing as plain text
		return strings.TrimSpace(string(raw)), "", ""
	}
	defer mr.Close()

	inReplyTo = mr.Header.Get("In-Reply-To")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			textBody = strings.TrimSpace(string(body))
		case strings.HasPrefix(contentType, "text/html"):
			htmlBody = string(body)
		}
	}

	return textBody, htmlBody, inReplyTo
}
