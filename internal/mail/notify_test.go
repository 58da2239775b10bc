package mail

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartreach/agent/internal/model"
)

func TestComposeCustomerReply_EscapesAndBreaks(t *testing.T) {
	body := ComposeCustomerReply("Alice", "Sure <thing>.\nSee attached.")

	require.Contains(t, body, "<p>Hi Alice,</p>")
	require.Contains(t, body, "Sure &lt;thing&gt;.<br>See attached.")
	require.Contains(t, body, "Customer Service Team")
}

func TestComposeReplyDigest(t *testing.T) {
	subject, body := ComposeReplyDigest([]model.Reply{
		{FromEmail: "a@example.com", Subject: "Re: Offer", MailboxLink: "https://mail.example.com/1"},
		{FromEmail: "b@example.com", Subject: "Re: Pricing"},
	})

	require.Equal(t, "2 new reply notification(s)", subject)
	require.Contains(t, body, "a@example.com")
	require.Contains(t, body, "Re: Pricing")
	require.Contains(t, body, `href="https://mail.example.com/1"`)
}

func TestComposeEscalationAlert(t *testing.T) {
	reply := model.Reply{
		FromEmail: "angry@example.com",
		Subject:   "Re: Offer",
		Body:      "I want a refund & I want it now",
	}

	subject, body := ComposeEscalationAlert(reply, "Angry", "Refund request")
	require.Equal(t, "Customer needs attention: Angry", subject)
	require.Contains(t, body, "Refund request")
	require.Contains(t, body, "refund &amp; I want")
}

func TestReplySubject(t *testing.T) {
	require.Equal(t, "Re: Offer", replySubject("Offer"))
	require.Equal(t, "Re: Offer", replySubject("Re: Offer"))
	require.Equal(t, "RE: Offer", replySubject("RE: Offer"))
}

func TestEnsureAngleBrackets(t *testing.T) {
	require.Equal(t, "<id@example.com>", ensureAngleBrackets("id@example.com"))
	require.Equal(t, "<id@example.com>", ensureAngleBrackets("<id@example.com>"))
}

func TestValidAddress(t *testing.T) {
	require.True(t, ValidAddress("user@example.com"))
	require.True(t, ValidAddress("user.name+tag@sub.example.co"))
	require.False(t, ValidAddress("not-an-address"))
	require.False(t, ValidAddress("user@@example.com"))
	require.False(t, ValidAddress(""))
}
