// Package commands implements the smartreach CLI commands using cobra.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartreach/agent/internal/model"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smartreach",
		Short: "SmartReach - outbound email campaigns with automated reply handling",
		Long: `SmartReach runs outbound email campaigns and handles the replies.

It generates one personalized email per recipient, tracks which
recipients wrote back, answers routine replies automatically, and
escalates the rest to you.

Examples:
  smartreach setup
  smartreach launch --csv leads.csv --offer "20% off annual plans"
  smartreach track
  smartreach respond
  smartreach serve
  smartreach status`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSetupCmd(),
		newLaunchCmd(),
		newTrackCmd(),
		newRespondCmd(),
		newServeCmd(),
		newStatusCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")

	return rootCmd
}

// configPath resolves the --config flag, falling back to the default
// location.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = model.DefaultConfigPath()
	}
	return path
}
