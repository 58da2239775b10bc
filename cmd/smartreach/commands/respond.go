package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond",
		Short: "Process the pending reply queue",
		Long: `Respond runs one processing pass over the pending reply queue.

Routine replies get an AI-generated answer, the rest are escalated to
the mailbox owner. Replies from recipients the owner handled recently
are left alone, and replies whose delivery failed stay queued for the
next pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			stats, err := rt.processor().Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Processed replies: %d answered, %d escalated, %d skipped, %d failed\n",
				stats.AiResponded, stats.EscalatedToHuman, stats.SkippedManual, stats.Failed)
			return nil
		},
	}
}
