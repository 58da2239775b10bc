package model

import "time"

// Recipient is one row of a campaign recipient list.
type Recipient struct {
	Name  string
	Email string
}

// CampaignParams are the inputs to a campaign launch.
type CampaignParams struct {
	FromName    string
	Offer       string
	Description string
	Recipients  []Recipient

	// DryRun generates and records emails without delivering them.
	DryRun bool
}

// CampaignStats are the per-launch outcome counters.
type CampaignStats struct {
	Sent             int `json:"sent"`
	Skipped          int `json:"skipped"`
	Failed           int `json:"failed"`
	GenerationFailed int `json:"generation_failed"`
}

// Campaign is a persisted campaign launch. The offer and description of
// the most recent campaign become the product context supplied to the
// draft generator when replies are processed.
type Campaign struct {
	ID          string    `db:"id"`
	FromName    string    `db:"from_name"`
	Offer       string    `db:"offer"`
	Description string    `db:"description"`
	StartedAt   time.Time `db:"started_at"`

	Sent             int `db:"sent"`
	Skipped          int `db:"skipped"`
	Failed           int `db:"failed"`
	GenerationFailed int `db:"generation_failed"`
}

// Summary aggregates campaign and reply activity for reporting.
type Summary struct {
	TotalCampaigns int `json:"total_campaigns"`
	EmailsSent     int `json:"emails_sent"`
	PendingReplies int `json:"pending_replies"`
	AiResponses    int `json:"ai_responses"`
}
