package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Check the mailbox for new replies from contacted recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			count, err := rt.tracker().Run(cmd.Context())
			if err != nil {
				return err
			}

			if count == 0 {
				fmt.Println("No new replies.")
			} else {
				fmt.Printf("Enqueued %d new replies.\n", count)
			}
			return nil
		},
	}
}
