package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a summary of campaign and reply activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, err := rt.reporter().Summary(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Campaigns:       %d\n", summary.TotalCampaigns)
			fmt.Printf("Emails sent:     %d\n", summary.EmailsSent)
			fmt.Printf("Pending replies: %d\n", summary.PendingReplies)
			fmt.Printf("AI responses:    %d\n", summary.AiResponses)
			return nil
		},
	}
}
