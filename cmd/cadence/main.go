package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - Adaptive daily plan engine",
	Long: `Cadence turns two anchor times (wake estimate and bed target)
into a structured daily plan, keeps the plan reconciled as anchors
shift, and surfaces reminders only when they are actually due.

The daemon owns the plan database; every other command talks to it
over the local HTTP API.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Cadence version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Add subcommands
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(snoozeCmd)
	rootCmd.AddCommand(skipCmd)
}
