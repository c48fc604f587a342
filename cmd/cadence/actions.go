package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/pkg/client"
)

var ackCmd = &cobra.Command{
	Use:   "ack ITEM_ID",
	Short: "Acknowledge a plan item as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(daemonAddr(cmd))
		if err := c.Acknowledge(args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Acknowledged")
		return nil
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze ITEM_ID",
	Short: "Snooze a plan item",
	Long: `Snooze a plan item, shifting its window 15 minutes later.
A snoozed item resurfaces when its shifted window comes due.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(daemonAddr(cmd))
		if err := c.Snooze(args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Snoozed")
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip ITEM_ID",
	Short: "Skip a plan item for the day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(daemonAddr(cmd))
		if err := c.Skip(args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Skipped")
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{ackCmd, snoozeCmd, skipCmd} {
		cmd.Flags().String("addr", defaultDaemonAddr, "Daemon API address")
	}
}
