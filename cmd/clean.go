package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelier-studio/atelier/internal/config"
	"github.com/atelier-studio/atelier/internal/logger"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove saved preferences and log files",
	Long: `Clean removes the preferences file (sidebar state, layout orientation,
remembered panel sizes) and any Atelier log files under /tmp. Server-side
documents are untouched.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	prefs, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading preferences: %w", err)
	}

	if err := prefs.Clear(); err != nil {
		return fmt.Errorf("error clearing preferences: %w", err)
	}
	fmt.Println("Preferences cleared.")

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Printf("Warning: error clearing logs: %v\n", err)
	}
	if logsCleared > 0 {
		fmt.Printf("Removed %d log file(s).\n", logsCleared)
	}
	return nil
}
