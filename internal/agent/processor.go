package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

const (
	defaultSuppressionWindow = 24 * time.Hour
	defaultHistoryLimit      = 3
)

// ProcessorDeps carries the collaborators a Processor needs.
type ProcessorDeps struct {
	Queue         ReplyQueue
	Handling      HandlingLog
	Conversations ConversationLog
	Products      ProductSource
	Status        StatusRecorder
	Transport     MailTransport
	Generator     DraftGenerator
}

// ProcessorConfig tunes the processing pass. Zero values fall back to
// the defaults (24h window, 3 history entries).
type ProcessorConfig struct {
	SuppressionWindow time.Duration
	HistoryLimit      int
}

// Processor drains the pending-reply queue. Each reply resolves to
// exactly one outcome per pass: answered by AI, escalated to the
// owner, skipped while inside the suppression window, or retained for
// retry after a delivery failure.
type Processor struct {
	queue         ReplyQueue
	handling      HandlingLog
	conversations ConversationLog
	products      ProductSource
	status        StatusRecorder
	transport     MailTransport
	generator     DraftGenerator
	window        time.Duration
	historyLimit  int
	now           func() time.Time
}

func NewProcessor(deps ProcessorDeps, cfg ProcessorConfig) *Processor {
	if cfg.SuppressionWindow <= 0 {
		cfg.SuppressionWindow = defaultSuppressionWindow
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Processor{
		queue:         deps.Queue,
		handling:      deps.Handling,
		conversations: deps.Conversations,
		products:      deps.Products,
		status:        deps.Status,
		transport:     deps.Transport,
		generator:     deps.Generator,
		window:        cfg.SuppressionWindow,
		historyLimit:  cfg.HistoryLimit,
		now:           time.Now,
	}
}

// Run executes one processing pass over the pending queue. The queue
// file is rewritten once at the end: terminal replies are removed,
// skipped and failed ones are retained.
func (p *Processor) Run(ctx context.Context) (model.ProcessingStats, error) {
	var stats model.ProcessingStats

	pending, err := p.queue.Load()
	if err != nil {
		return stats, fmt.Errorf("loading pending replies: %w", err)
	}
	if len(pending) == 0 {
		slog.Info("pending reply queue is empty")
		return stats, nil
	}

	offer, description := p.productContext(ctx)

	remaining := make([]model.Reply, 0, len(pending))
	for _, reply := range pending {
		email := strings.ToLower(reply.FromEmail)
		name := reply.DisplayName()

		if p.handling.WasRecentlyHandled(email, p.window) {
			stats.SkippedManual++
			p.status.Record(StatusSkippedManual, email, "within manual-handling window")
			remaining = append(remaining, reply)
			continue
		}

		draft, err := p.generator.Draft(ctx, model.DraftRequest{
			Message:     reply.Body,
			SenderName:  name,
			History:     p.conversations.RecentHistory(email, p.historyLimit),
			Offer:       offer,
			Description: description,
		})
		if err != nil {
			// A generator failure never drops a reply, it escalates it.
			slog.Warn("drafting response", "recipient", email, "error", err)
			draft = model.Draft{NeedsHuman: true, Reason: err.Error()}
		}

		if !draft.NeedsHuman {
			if p.respond(ctx, reply, email, name, draft.Response) {
				stats.AiResponded++
				continue
			}
		} else if p.escalate(ctx, reply, email, name, draft.Reason) {
			stats.EscalatedToHuman++
			continue
		}

		stats.Failed++
		remaining = append(remaining, reply)
	}

	if err := p.queue.Replace(remaining); err != nil {
		return stats, fmt.Errorf("rewriting pending replies: %w", err)
	}

	slog.Info("processing pass complete",
		"ai_responded", stats.AiResponded,
		"escalated", stats.EscalatedToHuman,
		"skipped", stats.SkippedManual,
		"failed", stats.Failed)
	return stats, nil
}

// respond sends the AI draft back to the customer. Returns false when
// delivery failed and the reply must stay queued.
func (p *Processor) respond(ctx context.Context, reply model.Reply, email, name, response string) bool {
	htmlBody := mail.ComposeCustomerReply(name, response)
	if err := p.transport.SendReply(ctx, email, reply.Subject, htmlBody, reply.MessageID); err != nil {
		slog.Warn("sending AI response", "recipient", email, "error", err)
		p.status.Record(StatusSendFailed, email, err.Error())
		return false
	}

	if err := p.conversations.Append(model.ConversationEntry{
		Timestamp:       p.now(),
		RecipientEmail:  email,
		RecipientName:   name,
		CustomerMessage: reply.Body,
		AiResponse:      &response,
	}); err != nil {
		// The customer already has the mail, so the reply still
		// resolves; the gap in the log is surfaced for the operator.
		slog.Warn("recording conversation entry", "recipient", email, "error", err)
		p.status.Record(StatusLogFailed, email, err.Error())
	}
	p.status.Record(StatusAiResponded, email, "Subject: "+reply.Subject)
	return true
}

// escalate alerts the owner about a reply the AI cannot answer. The
// suppression window starts only after the alert was actually
// delivered.
func (p *Processor) escalate(ctx context.Context, reply model.Reply, email, name, reason string) bool {
	subject, htmlBody := mail.ComposeEscalationAlert(reply, name, reason)
	if err := p.transport.SendNotification(ctx, subject, htmlBody); err != nil {
		slog.Warn("sending escalation alert", "recipient", email, "error", err)
		p.status.Record(StatusNotifyFailed, email, reason)
		return false
	}

	if err := p.handling.MarkHandled(email); err != nil {
		slog.Warn("recording manual-handling event", "recipient", email, "error", err)
	}
	escalationReason := reason
	if err := p.conversations.Append(model.ConversationEntry{
		Timestamp:        p.now(),
		RecipientEmail:   email,
		RecipientName:    name,
		CustomerMessage:  reply.Body,
		NeedsHuman:       true,
		EscalationReason: &escalationReason,
	}); err != nil {
		slog.Warn("recording conversation entry", "recipient", email, "error", err)
		p.status.Record(StatusLogFailed, email, err.Error())
	}
	p.status.Record(StatusEscalated, email, "Reason: "+reason)
	return true
}

func (p *Processor) productContext(ctx context.Context) (offer, description string) {
	campaign, err := p.products.LatestCampaign(ctx)
	if err != nil {
		slog.Warn("loading campaign product context", "error", err)
		return "", ""
	}
	if campaign == nil {
		return "", ""
	}
	return campaign.Offer, campaign.Description
}
