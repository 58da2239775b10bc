// Package agent implements the reply lifecycle engine: campaign
// launches, reply discovery against the send ledger, and the
// processing pass that resolves each pending reply to an AI response,
// an escalation, or a retained retry.
package agent

import (
	"context"
	"time"

	"github.com/smartreach/agent/internal/ai"
	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

// Status log outcome labels.
const (
	StatusAiResponded   = "AI_RESPONDED"
	StatusEscalated     = "ESCALATED"
	StatusSkippedManual = "SKIPPED_MANUAL"
	StatusSendFailed    = "SEND_FAILED"
	StatusNotifyFailed  = "NOTIFICATION_FAILED"
	StatusLogFailed     = "CONVERSATION_LOG_FAILED"
)

// MailTransport is the mailbox capability the engine depends on:
// search/fetch, read-marking, and delivery.
type MailTransport interface {
	FetchUnseenFrom(ctx context.Context, addrs []string) ([]mail.Inbound, error)
	MarkSeen(ctx context.Context, uid uint32) error
	SendReply(ctx context.Context, to, subject, htmlBody, inReplyTo string) error
	SendNotification(ctx context.Context, subject, htmlBody string) error
	SendCampaign(ctx context.Context, fromName, to, subject, htmlBody string) error
}

// DraftGenerator produces either a usable response or an escalation
// signal for a customer message.
type DraftGenerator interface {
	Draft(ctx context.Context, req model.DraftRequest) (model.Draft, error)
}

// EmailComposer generates campaign emails.
type EmailComposer interface {
	ComposeCampaign(
		ctx context.Context,
		recipientName, offer, description, senderName string,
	) (ai.CampaignEmail, error)
}

// ReplyQueue is the durable pending-reply queue.
type ReplyQueue interface {
	Load() ([]model.Reply, error)
	Append(replies []model.Reply) error
	Replace(replies []model.Reply) error
}

// HandlingLog tracks manual-handling events and answers the
// time-windowed suppression query.
type HandlingLog interface {
	MarkHandled(email string) error
	WasRecentlyHandled(email string, window time.Duration) bool
}

// ConversationLog records resolved replies and supplies bounded recent
// history for the draft generator.
type ConversationLog interface {
	Append(entry model.ConversationEntry) error
	RecentHistory(email string, limit int) string
}

// SendLedger records campaign send attempts and derives the set of
// contacted addresses.
type SendLedger interface {
	Append(record model.SendRecord) error
	SentAddresses() (map[string]bool, error)
}

// CampaignWriter persists campaign launches.
type CampaignWriter interface {
	CreateCampaign(ctx context.Context, c *model.Campaign) error
	UpdateCampaignStats(ctx context.Context, id string, stats model.CampaignStats) error
}

// ProductSource supplies the product context for draft generation,
// taken from the most recent campaign.
type ProductSource interface {
	LatestCampaign(ctx context.Context) (*model.Campaign, error)
}

// StatusRecorder writes human-readable per-reply outcome lines.
type StatusRecorder interface {
	Record(status, email, detail string)
}
