package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartreach/agent/internal/model"
)

func newLaunchCmd() *cobra.Command {
	var (
		csvPath     string
		fromName    string
		offer       string
		description string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a campaign to recipients from a CSV file",
		Long: `Launch generates and sends one personalized email per recipient.

The CSV file needs an email column and an optional name column, in
either order, with or without a header row. Invalid and duplicate
addresses are skipped and recorded in the send ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := readRecipients(csvPath)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			stats, err := rt.launcher().Run(cmd.Context(), model.CampaignParams{
				FromName:    fromName,
				Offer:       offer,
				Description: description,
				Recipients:  recipients,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("Dry run complete: %d generated, %d skipped, %d generation failures\n",
					stats.Sent, stats.Skipped, stats.GenerationFailed)
				return nil
			}
			fmt.Printf("Campaign complete: %d sent, %d skipped, %d failed, %d generation failures\n",
				stats.Sent, stats.Skipped, stats.Failed, stats.GenerationFailed)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "path to the recipients CSV file")
	cmd.Flags().StringVar(&fromName, "from-name", "Your Marketing Team", "sender display name")
	cmd.Flags().StringVar(&offer, "offer", "", "the offer to pitch")
	cmd.Flags().StringVar(&description, "description", "", "product or service description")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate and record emails without sending them")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("offer")

	return cmd
}

// readRecipients parses a CSV of recipients. Rows are interpreted as
// (name, email) or (email, name) depending on which field looks like
// an address, single-column rows as bare addresses.
func readRecipients(path string) ([]model.Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recipients file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing recipients file: %w", err)
	}

	var recipients []model.Recipient
	for i, row := range rows {
		recipient, ok := recipientFromRow(row)
		if !ok {
			// A non-address first row is a header.
			if i == 0 {
				continue
			}
			recipient = model.Recipient{Email: strings.TrimSpace(row[0])}
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

func recipientFromRow(row []string) (model.Recipient, bool) {
	for i, field := range row {
		field = strings.TrimSpace(field)
		if !strings.Contains(field, "@") {
			continue
		}
		name := ""
		for j, other := range row {
			if j != i && strings.TrimSpace(other) != "" {
				name = strings.TrimSpace(other)
				break
			}
		}
		return model.Recipient{Name: name, Email: field}, true
	}
	return model.Recipient{}, false
}
