package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadencehq/cadence/pkg/assist"
	"github.com/cadencehq/cadence/pkg/client"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/cadencehq/cadence/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage manual tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a manual task to a day's plan",
	Long: `Add a manual task to a day's plan. Manual tasks sit alongside the
generated routine and survive regeneration untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		start, _ := cmd.Flags().GetString("start")
		duration, _ := cmd.Flags().GetInt("duration")

		c := client.NewClient(daemonAddr(cmd))
		created, err := c.AddTasks(date, start, []assist.Suggestion{{
			Title:           args[0],
			DurationMinutes: duration,
		}})
		if err != nil {
			return err
		}
		for _, id := range created {
			fmt.Printf("✓ Added task %s\n", id)
		}
		return nil
	},
}

var taskSuggestCmd = &cobra.Command{
	Use:   "suggest PROMPT",
	Short: "Generate task suggestions and add them to a day's plan",
	Long: `Ask the configured Gemini model for task suggestions matching a
free-form prompt, then inject them into a day's plan via the daemon.

Requires GEMINI_API_KEY in the environment or a .env file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		start, _ := cmd.Flags().GetString("start")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		suggester, err := assist.NewGeminiSuggester(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create suggester: %v", err)
		}
		defer suggester.Close()

		suggestions, err := suggester.Suggest(ctx, args[0])
		if err != nil {
			return fmt.Errorf("suggestion failed: %v", err)
		}
		if len(suggestions) == 0 {
			fmt.Println("No suggestions returned.")
			return nil
		}

		for _, s := range suggestions {
			fmt.Printf("  %s (%dm, %s effort)\n", s.Title, s.DurationMinutes, s.Effort)
		}
		if dryRun {
			return nil
		}

		c := client.NewClient(daemonAddr(cmd))
		created, err := c.AddTasks(date, start, suggestions)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added %d tasks\n", len(created))
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskSuggestCmd)

	for _, cmd := range []*cobra.Command{taskAddCmd, taskSuggestCmd} {
		cmd.Flags().String("addr", defaultDaemonAddr, "Daemon API address")
		cmd.Flags().String("date", time.Now().Format(types.DateFormat), "Plan date (YYYY-MM-DD)")
		cmd.Flags().String("start", "", "Placement hint (RFC3339); default next free slot")
	}
	taskAddCmd.Flags().Int("duration", 15, "Task duration in minutes")
	taskSuggestCmd.Flags().Bool("dry-run", false, "Print suggestions without adding them")
}
