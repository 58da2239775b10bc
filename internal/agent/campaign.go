package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
)

// Launcher runs outbound campaigns: one generated email per valid,
// not-yet-seen recipient, with every attempt recorded in the send
// ledger.
type Launcher struct {
	ledger    SendLedger
	campaigns CampaignWriter
	transport MailTransport
	composer  EmailComposer
	now       func() time.Time
}

func NewLauncher(ledger SendLedger, campaigns CampaignWriter, transport MailTransport, composer EmailComposer) *Launcher {
	return &Launcher{
		ledger:    ledger,
		campaigns: campaigns,
		transport: transport,
		composer:  composer,
		now:       time.Now,
	}
}

// Run sends one campaign. Recipient-level failures are recorded and
// counted, they never abort the run.
func (l *Launcher) Run(ctx context.Context, params model.CampaignParams) (model.CampaignStats, error) {
	var stats model.CampaignStats

	if len(params.Recipients) == 0 {
		return stats, errors.New("campaign has no recipients")
	}

	campaign := &model.Campaign{
		FromName:    params.FromName,
		Offer:       params.Offer,
		Description: params.Description,
	}
	if err := l.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return stats, fmt.Errorf("recording campaign: %w", err)
	}

	seen := make(map[string]bool, len(params.Recipients))
	for _, recipient := range params.Recipients {
		email := strings.ToLower(strings.TrimSpace(recipient.Email))
		name := strings.TrimSpace(recipient.Name)
		if name == "" {
			name = "there"
		}

		if !mail.ValidAddress(email) {
			stats.Skipped++
			l.record(model.SendStatusSkipped, name, email, "", "invalid email address")
			continue
		}
		if seen[email] {
			stats.Skipped++
			l.record(model.SendStatusSkipped, name, email, "", "duplicate recipient")
			continue
		}
		seen[email] = true

		msg, err := l.composer.ComposeCampaign(ctx, name, params.Offer, params.Description, params.FromName)
		if err != nil {
			slog.Warn("generating campaign email", "recipient", email, "error", err)
			stats.GenerationFailed++
			l.record(model.SendStatusAIFailed, name, email, "", err.Error())
			continue
		}

		if params.DryRun {
			stats.Sent++
			l.record(model.SendStatusDryRun, name, email, msg.Subject, "")
			continue
		}

		if err := l.transport.SendCampaign(ctx, params.FromName, email, msg.Subject, msg.Body); err != nil {
			slog.Warn("sending campaign email", "recipient", email, "error", err)
			stats.Failed++
			l.record(model.SendStatusFailed, name, email, msg.Subject, err.Error())
			continue
		}

		stats.Sent++
		l.record(model.SendStatusSent, name, email, msg.Subject, "")
	}

	if err := l.campaigns.UpdateCampaignStats(ctx, campaign.ID, stats); err != nil {
		slog.Warn("updating campaign stats", "campaign", campaign.ID, "error", err)
	}

	slog.Info("campaign complete",
		"sent", stats.Sent,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"generation_failed", stats.GenerationFailed)
	return stats, nil
}

func (l *Launcher) record(status, name, email, subject, reason string) {
	err := l.ledger.Append(model.SendRecord{
		Timestamp: l.now().UTC(),
		Status:    status,
		Name:      name,
		Email:     email,
		Subject:   subject,
		Reason:    reason,
	})
	if err != nil {
		slog.Warn("appending send record", "recipient", email, "error", err)
	}
}
