package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartreach/agent/internal/model"
)

func pendingReply(email string) model.Reply {
	return model.Reply{
		FromEmail: email,
		Subject:   "Re: Spring offer",
		Body:      "Can you tell me more?",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		MessageID: "<" + email + "-msg@example.com>",
	}
}

type processorFixture struct {
	queue         *fakeQueue
	handling      *fakeHandling
	conversations *fakeConversations
	products      *fakeProducts
	status        *fakeStatus
	transport     *fakeTransport
	generator     *fakeGenerator
}

func newProcessorFixture(replies ...model.Reply) *processorFixture {
	return &processorFixture{
		queue:         &fakeQueue{replies: replies},
		handling:      &fakeHandling{suppressed: map[string]bool{}},
		conversations: &fakeConversations{},
		products:      &fakeProducts{campaign: &model.Campaign{Offer: "20% off", Description: "Tracking tool"}},
		status:        &fakeStatus{},
		transport:     &fakeTransport{},
		generator:     &fakeGenerator{draft: model.Draft{Response: "Happy to help."}},
	}
}

func (f *processorFixture) processor() *Processor {
	return NewProcessor(ProcessorDeps{
		Queue:         f.queue,
		Handling:      f.handling,
		Conversations: f.conversations,
		Products:      f.products,
		Status:        f.status,
		Transport:     f.transport,
		Generator:     f.generator,
	}, ProcessorConfig{})
}

func TestProcessor_EmptyQueueIsNoOp(t *testing.T) {
	f := newProcessorFixture()

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats)
	require.Zero(t, f.queue.replaceCalls)
	require.Zero(t, f.generator.calls)
}

func TestProcessor_AiResponse(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.AiResponded)

	// The response went out in-thread to the customer.
	require.Len(t, f.transport.replies, 1)
	require.Equal(t, "cust@example.com", f.transport.replies[0].to)
	require.Equal(t, "<cust@example.com-msg@example.com>", f.transport.replies[0].inReplyTo)
	require.Contains(t, f.transport.replies[0].body, "Happy to help.")

	// Product context from the latest campaign reached the generator.
	require.Equal(t, "20% off", f.generator.last.Offer)

	// The conversation entry carries the AI answer, and the reply left
	// the queue.
	require.Len(t, f.conversations.entries, 1)
	require.NotNil(t, f.conversations.entries[0].AiResponse)
	require.Equal(t, "Happy to help.", *f.conversations.entries[0].AiResponse)
	require.Empty(t, f.queue.replaced)
	require.Equal(t, 1, f.queue.replaceCalls)

	// An AI answer never starts the suppression window.
	require.Empty(t, f.handling.marked)
	require.True(t, f.status.has(StatusAiResponded, "cust@example.com"))
}

func TestProcessor_Escalation(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.generator.draft = model.Draft{NeedsHuman: true, Reason: "Refund request"}

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.EscalatedToHuman)

	// The owner got the alert, the customer got nothing.
	require.Len(t, f.transport.notifications, 1)
	require.Contains(t, f.transport.notifications[0].body, "Refund request")
	require.Empty(t, f.transport.replies)

	// Escalation starts the suppression window and logs the entry
	// without an AI response.
	require.Equal(t, []string{"cust@example.com"}, f.handling.marked)
	require.Len(t, f.conversations.entries, 1)
	require.Nil(t, f.conversations.entries[0].AiResponse)
	require.True(t, f.conversations.entries[0].NeedsHuman)
	require.NotNil(t, f.conversations.entries[0].EscalationReason)
	require.Equal(t, "Refund request", *f.conversations.entries[0].EscalationReason)

	require.Empty(t, f.queue.replaced)
	require.True(t, f.status.has(StatusEscalated, "cust@example.com"))
}

func TestProcessor_SuppressionWindowSkips(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.handling.suppressed["cust@example.com"] = true

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.SkippedManual)

	// No generation, no mail, reply retained for a later pass.
	require.Zero(t, f.generator.calls)
	require.Empty(t, f.transport.replies)
	require.Empty(t, f.transport.notifications)
	require.Len(t, f.queue.replaced, 1)
	require.True(t, f.status.has(StatusSkippedManual, "cust@example.com"))
}

func TestProcessor_SendFailureRetainsReply(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.transport.replyErr = errors.New("smtp: connection refused")

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Failed)
	require.Zero(t, stats.AiResponded)

	// The failed reply stays queued and nothing was logged as
	// resolved.
	require.Len(t, f.queue.replaced, 1)
	require.Empty(t, f.conversations.entries)
	require.True(t, f.status.has(StatusSendFailed, "cust@example.com"))
}

func TestProcessor_NotificationFailureRetainsReply(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.generator.draft = model.Draft{NeedsHuman: true, Reason: "Refund request"}
	f.transport.notifyErr = errors.New("smtp: connection refused")

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Failed)
	require.Zero(t, stats.EscalatedToHuman)

	// A failed alert must not start the suppression window, the next
	// pass retries the escalation.
	require.Empty(t, f.handling.marked)
	require.Len(t, f.queue.replaced, 1)
	require.True(t, f.status.has(StatusNotifyFailed, "cust@example.com"))
}

func TestProcessor_GeneratorErrorEscalates(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.generator.err = errors.New("ai: request failed")

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.EscalatedToHuman)

	require.Len(t, f.transport.notifications, 1)
	require.Contains(t, f.transport.notifications[0].body, "ai: request failed")
	require.Empty(t, f.queue.replaced)
}

func TestProcessor_MixedPassRewritesQueueOnce(t *testing.T) {
	f := newProcessorFixture(
		pendingReply("answered@example.com"),
		pendingReply("suppressed@example.com"),
		pendingReply("failing@example.com"),
	)
	f.handling.suppressed["suppressed@example.com"] = true

	// First recipient succeeds, third hits a dead SMTP server.
	wrapped := &selectiveFailTransport{
		fakeTransport: f.transport,
		failTo:        "failing@example.com",
		err:           errors.New("smtp: timeout"),
	}

	p := NewProcessor(ProcessorDeps{
		Queue:         f.queue,
		Handling:      f.handling,
		Conversations: f.conversations,
		Products:      f.products,
		Status:        f.status,
		Transport:     wrapped,
		Generator:     f.generator,
	}, ProcessorConfig{})

	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.AiResponded)
	require.Equal(t, 1, stats.SkippedManual)
	require.Equal(t, 1, stats.Failed)

	require.Equal(t, 1, f.queue.replaceCalls)
	require.Len(t, f.queue.replaced, 2)
	require.Equal(t, "suppressed@example.com", f.queue.replaced[0].FromEmail)
	require.Equal(t, "failing@example.com", f.queue.replaced[1].FromEmail)
}

// selectiveFailTransport fails SendReply for one recipient only.
type selectiveFailTransport struct {
	*fakeTransport
	failTo string
	err    error
}

func (t *selectiveFailTransport) SendReply(ctx context.Context, to, subject, htmlBody, inReplyTo string) error {
	if to == t.failTo {
		return t.err
	}
	return t.fakeTransport.SendReply(ctx, to, subject, htmlBody, inReplyTo)
}

func TestProcessor_ConversationLogFailureIsSurfaced(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.conversations.appendErr = errors.New("disk full")

	stats, err := f.processor().Run(context.Background())
	require.NoError(t, err)

	// The customer already received the response, so the reply still
	// resolves and leaves the queue; the missing log entry shows up in
	// the status log instead.
	require.Equal(t, 1, stats.AiResponded)
	require.Empty(t, f.queue.replaced)
	require.True(t, f.status.has(StatusAiResponded, "cust@example.com"))
	require.True(t, f.status.has(StatusLogFailed, "cust@example.com"))
}

func TestProcessor_MissingProductContext(t *testing.T) {
	f := newProcessorFixture(pendingReply("cust@example.com"))
	f.products.campaign = nil

	_, err := f.processor().Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, f.generator.last.Offer)
	require.Empty(t, f.generator.last.Description)
}
