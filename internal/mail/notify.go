package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/smartreach/agent/internal/model"
)

// ComposeCustomerReply renders an AI-drafted response as the HTML body
// of a customer-facing email.
func ComposeCustomerReply(name, response string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf("<p>Hi %s,</p>", html.EscapeString(name)))
	b.WriteString(fmt.Sprintf("<p>%s</p>", htmlParagraph(response)))
	b.WriteString("<p>Regards,<br>Customer Service Team</p>")
	b.WriteString("</body></html>")
	return b.String()
}

// ComposeReplyDigest renders the new-reply notification sent to the
// mailbox owner after a discovery pass.
func ComposeReplyDigest(replies []model.Reply) (subject, htmlBody string) {
	subject = fmt.Sprintf("%d new reply notification(s)", len(replies))

	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf(
		"<h2>You've got %d new replies!</h2><ul>", len(replies),
	))
	for _, r := range replies {
		b.WriteString("<li>")
		b.WriteString(fmt.Sprintf(
			"<b>From:</b> %s<br>", html.EscapeString(r.FromEmail),
		))
		b.WriteString(fmt.Sprintf(
			"<b>Subject:</b> %s<br>", html.EscapeString(r.Subject),
		))
		if r.MailboxLink != "" {
			b.WriteString(fmt.Sprintf(
				`<a href="%s" target="_blank">View in mailbox</a><br>`,
				html.EscapeString(r.MailboxLink),
			))
		}
		b.WriteString("<hr></li>")
	}
	b.WriteString("</ul></body></html>")

	return subject, b.String()
}

// ComposeEscalationAlert renders the manual-intervention notification
// for a reply the generator declined to answer.
func ComposeEscalationAlert(
	reply model.Reply, name, reason string,
) (subject, htmlBody string) {
	subject = fmt.Sprintf("Customer needs attention: %s", name)

	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h2>Manual intervention required</h2>")
	b.WriteString(fmt.Sprintf(
		"<p><b>Customer:</b> %s (%s)</p>",
		html.EscapeString(name), html.EscapeString(reply.FromEmail),
	))
	b.WriteString(fmt.Sprintf(
		"<p><b>Reason:</b> %s</p>", html.EscapeString(reason),
	))
	b.WriteString(fmt.Sprintf("<p>%s</p>", htmlParagraph(reply.Body)))
	if reply.MailboxLink != "" {
		b.WriteString(fmt.Sprintf(
			`<a href="%s">Open in mailbox</a>`,
			html.EscapeString(reply.MailboxLink),
		))
	}
	b.WriteString("</body></html>")

	return subject, b.String()
}

// htmlParagraph escapes plain text and preserves line breaks.
func htmlParagraph(text string) string {
	escaped := html.EscapeString(text)
	return strings.ReplaceAll(escaped, "\n", "<br>")
}
