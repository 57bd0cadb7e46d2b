// Package cmd wires the CLI surface: the root TUI command and the
// clean subcommand.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/atelier-studio/atelier/internal/app"
	"github.com/atelier-studio/atelier/internal/config"
	"github.com/atelier-studio/atelier/internal/logger"
	"github.com/atelier-studio/atelier/internal/remote"
	"github.com/atelier-studio/atelier/internal/workspace"
)

var (
	debugMode             bool
	quietMode             bool
	serverURL             string
	projectID             string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "atelier [file-id...]",
	Short: "Terminal client for Atelier collaborative workspaces",
	Long: `Atelier is a terminal client for collaborative document and canvas
workspaces. It keeps your open files, autosaves edits after you pause
typing, and remembers your panel layout between sessions.

Any file ids given as arguments are opened on startup; more can be
opened from inside the app with ctrl+n.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Workspace server URL (overrides the saved preference)")
	rootCmd.Flags().StringVar(&projectID, "project", "", "Project to open (defaults to the last one used)")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("atelier %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("atelier %s\n", version)
}

func runTUI(cmd *cobra.Command, args []string) error {
	prefs, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading preferences: %w", err)
	}

	baseURL := serverURL
	if baseURL == "" {
		baseURL = prefs.GetServerURL()
	}
	if baseURL == "" {
		return fmt.Errorf("no workspace server configured; pass --server or set it once in preferences")
	}
	if serverURL != "" {
		prefs.SetServerURL(serverURL)
	}

	store := remote.NewHTTPStore(remote.HTTPConfig{
		BaseURL:   baseURL,
		AuthToken: os.Getenv("ATELIER_TOKEN"),
	})

	// Ensure logger is closed on exit
	defer logger.Close()

	session := workspace.NewSession(store, workspace.WithPreferences(prefs))

	project := projectID
	if project == "" {
		project = prefs.GetLastProjectID()
	}
	if project != "" {
		session.InitializeSession(project)
	}

	for _, fileID := range args {
		if err := session.OpenFile(context.Background(), fileID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open %s: %v\n", fileID, err)
			logger.Warn("CLI: Could not open %s at startup: %v", fileID, err)
		}
	}

	m := app.New(session, prefs, version)
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
