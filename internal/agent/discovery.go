package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

// Tracker discovers unread replies from previously contacted
// recipients and enqueues them for processing.
type Tracker struct {
	ledger    SendLedger
	queue     ReplyQueue
	transport MailTransport
	now       func() time.Time
}

func NewTracker(ledger SendLedger, queue ReplyQueue, transport MailTransport) *Tracker {
	return &Tracker{
		ledger:    ledger,
		queue:     queue,
		transport: transport,
		now:       time.Now,
	}
}

// Run performs one discovery pass and returns the number of newly
// enqueued replies. An empty contacted set is a no-op, not an error.
func (t *Tracker) Run(ctx context.Context) (int, error) {
	contacted, err := t.ledger.SentAddresses()
	if err != nil {
		return 0, fmt.Errorf("loading contacted addresses: %w", err)
	}
	if len(contacted) == 0 {
		slog.Info("send ledger has no contacted addresses, nothing to track")
		return 0, nil
	}

	addrs := make([]string, 0, len(contacted))
	for addr := range contacted {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	messages, err := t.transport.FetchUnseenFrom(ctx, addrs)
	if err != nil {
		return 0, fmt.Errorf("searching mailbox: %w", err)
	}

	var replies []model.Reply
	for _, msg := range messages {
		// Servers may match senders loosely, re-check against the
		// ledger before trusting a hit.
		if !contacted[strings.ToLower(msg.From)] {
			continue
		}
		// Only threaded messages count as replies; unsolicited mail
		// from a contacted address is left alone.
		if msg.InReplyTo == "" {
			continue
		}

		replies = append(replies, model.Reply{
			FromEmail:   strings.ToLower(msg.From),
			Subject:     msg.Subject,
			Body:        msg.Body(),
			Timestamp:   t.now(),
			MailboxLink: msg.Link,
			MessageID:   msg.MessageID,
		})

		if err := t.transport.MarkSeen(ctx, msg.UID); err != nil {
			slog.Warn("marking reply as read", "uid", msg.UID, "error", err)
		}
	}

	if len(replies) == 0 {
		slog.Info("no new replies found")
		return 0, nil
	}

	if err := t.queue.Append(replies); err != nil {
		return 0, fmt.Errorf("enqueueing replies: %w", err)
	}

	// The owner digest is best-effort, the replies are already queued.
	subject, body := mail.ComposeReplyDigest(replies)
	if err := t.transport.SendNotification(ctx, subject, body); err != nil {
		slog.Warn("sending new-reply digest", "error", err)
	}

	slog.Info("enqueued new replies", "count", len(replies))
	return len(replies), nil
}
