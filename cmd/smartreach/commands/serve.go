package commands

import (
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run tracking and responding on a schedule until interrupted",
		Long: `Serve runs the reply lifecycle continuously: tracking and
responding fire on their configured cron schedules (schedule.track and
schedule.respond) until the process receives SIGINT or SIGTERM.

Passes are serialized, a tracking pass never overlaps a responding
pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			// Validate the mailbox once up front so schedule
			// misfires surface immediately, not on the first tick.
			if err := rt.transport.ValidateConnection(cmd.Context()); err != nil {
				return fmt.Errorf("validating mailbox connection: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// One pass at a time across both jobs.
			var mu sync.Mutex

			scheduler := cron.New()
			_, err = scheduler.AddFunc(rt.cfg.Schedule.Track, func() {
				mu.Lock()
				defer mu.Unlock()
				if _, err := rt.tracker().Run(ctx); err != nil {
					slog.Error("tracking pass failed", "error", err)
				}
			})
			if err != nil {
				return fmt.Errorf("invalid track schedule %q: %w", rt.cfg.Schedule.Track, err)
			}
			_, err = scheduler.AddFunc(rt.cfg.Schedule.Respond, func() {
				mu.Lock()
				defer mu.Unlock()
				if _, err := rt.processor().Run(ctx); err != nil {
					slog.Error("responding pass failed", "error", err)
				}
			})
			if err != nil {
				return fmt.Errorf("invalid respond schedule %q: %w", rt.cfg.Schedule.Respond, err)
			}

			scheduler.Start()
			slog.Info("scheduler running",
				"track", rt.cfg.Schedule.Track,
				"respond", rt.cfg.Schedule.Respond)

			<-ctx.Done()
			slog.Info("shutting down")
			<-scheduler.Stop().Done()
			return nil
		},
	}
}
