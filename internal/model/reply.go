package model

import (
	"strings"
	"time"
)

// Reply is an inbound message matched to a prior outbound send and
// recognized as part of an existing thread. Replies have no synthetic
// ID; the discovery layer enforces uniqueness at ingestion by marking
// the source message read.
type Reply struct {
	FromEmail   string    `json:"from_email"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Timestamp   time.Time `json:"timestamp"`
	MailboxLink string    `json:"mailbox_link,omitempty"`

	// MessageID is the RFC 822 Message-ID of the customer's message,
	// used to keep outgoing responses in the same thread.
	MessageID string `json:"message_id,omitempty"`
}

// DisplayName derives a human-readable name from the local part of the
// sender address ("jane.doe@x.com" -> "Jane.doe").
func (r Reply) DisplayName() string {
	local, _, _ := strings.Cut(r.FromEmail, "@")
	if local == "" {
		return "there"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// ConversationEntry is one append-only record in the per-recipient
// conversation log. AiResponse is nil for escalated replies.
type ConversationEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	RecipientEmail   string    `json:"recipient_email"`
	RecipientName    string    `json:"recipient_name"`
	CustomerMessage  string    `json:"customer_message"`
	AiResponse       *string   `json:"ai_response"`
	NeedsHuman       bool      `json:"needs_human"`
	EscalationReason *string   `json:"escalation_reason"`
}

// HandlingEvent marks a recipient as manually handled at a point in
// time. Events are never deleted or compacted; staleness is purely a
// function of the query-time window.
type HandlingEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	RecipientEmail string    `json:"recipient_email"`
}

// Send ledger record statuses. Only SendStatusSent marks a recipient
// as contacted; dry-run records never feed reply discovery.
const (
	SendStatusSent     = "sent"
	SendStatusSkipped  = "skipped"
	SendStatusFailed   = "failed"
	SendStatusAIFailed = "ai_failed"
	SendStatusDryRun   = "dry_run"
)

// SendRecord is one structured line in the append-only send ledger.
type SendRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// ProcessingStats are the ephemeral counters for one processing pass.
type ProcessingStats struct {
	AiResponded      int `json:"ai_responded"`
	EscalatedToHuman int `json:"escalated_to_human"`
	SkippedManual    int `json:"skipped_manual"`
	Failed           int `json:"failed"`
}

// DraftRequest carries everything the draft generator needs for one
// reply. The sender name is threaded through explicitly rather than
// read from ambient state.
type DraftRequest struct {
	Message     string
	SenderName  string
	History     string
	Offer       string
	Description string
}

// Draft is the outcome of a generation call: either a usable response,
// or an escalation with a stated reason.
type Draft struct {
	Response   string
	NeedsHuman bool
	Reason     string
}
