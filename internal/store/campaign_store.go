package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartreach/agent/internal/model"
)

// CreateCampaign inserts a new campaign row. Generates a UUID if ID is
// empty and stamps StartedAt when unset.
func (s *SQLiteStore) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	if strings.TrimSpace(c.FromName) == "" {
		return fmt.Errorf("campaign from_name must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO campaigns (
			id, from_name, offer, description, started_at,
			sent, skipped, failed, generation_failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FromName, c.Offer, c.Description, c.StartedAt.UTC(),
		c.Sent, c.Skipped, c.Failed, c.GenerationFailed,
	)
	if err != nil {
		return fmt.Errorf("creating campaign %s: %w", c.ID, err)
	}
	return nil
}

// UpdateCampaignStats writes the final outcome counters for a campaign.
func (s *SQLiteStore) UpdateCampaignStats(
	ctx context.Context,
	id string,
	stats model.CampaignStats,
) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE campaigns
		SET sent = ?, skipped = ?, failed = ?, generation_failed = ?
		WHERE id = ?`,
		stats.Sent, stats.Skipped, stats.Failed, stats.GenerationFailed, id,
	)
	if err != nil {
		return fmt.Errorf("updating campaign %s stats: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("campaign %s not found", id)
	}
	return nil
}

// LatestCampaign returns the most recently started campaign, or nil
// when no campaign has been launched yet.
func (s *SQLiteStore) LatestCampaign(ctx context.Context) (*model.Campaign, error) {
	var c model.Campaign
	err := s.db.GetContext(ctx, &c,
		"SELECT * FROM campaigns ORDER BY started_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest campaign: %w", err)
	}
	return &c, nil
}

// CampaignTotals returns the number of campaigns launched and the total
// emails sent across all of them.
func (s *SQLiteStore) CampaignTotals(ctx context.Context) (campaigns, sent int, err error) {
	err = s.db.GetContext(ctx, &campaigns, "SELECT COUNT(*) FROM campaigns")
	if err != nil {
		return 0, 0, fmt.Errorf("counting campaigns: %w", err)
	}

	err = s.db.GetContext(ctx, &sent, "SELECT COALESCE(SUM(sent), 0) FROM campaigns")
	if err != nil {
		return 0, 0, fmt.Errorf("summing sent emails: %w", err)
	}

	return campaigns, sent, nil
}
