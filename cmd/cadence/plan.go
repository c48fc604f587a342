package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/pkg/client"
	"github.com/cadencehq/cadence/pkg/types"
)

const defaultDaemonAddr = "127.0.0.1:8600"

func daemonAddr(cmd *cobra.Command) string {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = defaultDaemonAddr
	}
	return addr
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show a day's plan",
	Long: `Show the plan for a date (default today) as stored by the daemon,
one line per item in chronological order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		c := client.NewClient(daemonAddr(cmd))
		resp, err := c.Plan(date)
		if err != nil {
			return err
		}

		if resp.Day != nil {
			fmt.Printf("Plan for %s (%s mode)\n\n", resp.Day.Date, resp.Day.Mode)
		}
		if len(resp.Items) == 0 {
			fmt.Println("No items.")
			return nil
		}
		for _, item := range resp.Items {
			fmt.Println(formatItem(item))
		}
		return nil
	},
}

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Show the current widget snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(daemonAddr(cmd))
		snapshot, err := c.Widget()
		if err != nil {
			return err
		}

		fmt.Printf("Mode: %s\n", snapshot.Mode)
		if !snapshot.HasTask {
			fmt.Println("Nothing left today.")
			return nil
		}
		fmt.Printf("Next: %s (%s)\n", snapshot.Title, snapshot.TimeUntil)
		fmt.Printf("Urgency: %s\n", snapshot.Urgency)
		return nil
	},
}

func formatItem(item *types.PlanItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s - %s  %-24s %s",
		item.ID[:8],
		item.WindowStart.Format("15:04"),
		item.WindowEnd.Format("15:04"),
		item.Title,
		strings.ToUpper(string(item.Status)),
	)
	if item.IsCore {
		b.WriteString("  [core]")
	}
	if item.SnoozeCount > 0 {
		fmt.Fprintf(&b, "  (snoozed x%d)", item.SnoozeCount)
	}
	return b.String()
}

func init() {
	for _, cmd := range []*cobra.Command{planCmd, widgetCmd} {
		cmd.Flags().String("addr", defaultDaemonAddr, "Daemon API address")
	}
	planCmd.Flags().String("date", time.Now().Format(types.DateFormat), "Plan date (YYYY-MM-DD)")
}
