package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-activity-monitor/internal/data/store"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Data path
	dbPath string

	// Output related
	outputFormat string
	timezone     string

	rootCmd = &cobra.Command{
		Use:   "go-activity-monitor",
		Short: "Foreground activity tracking tool",
		Long: `go-activity-monitor records which application and window are in the
foreground, stores the resulting sessions in a local SQLite database, and
reports daily and weekly usage, top apps and goal progress.

Examples:
  go-activity-monitor track                       # Run the tracker until interrupted
  go-activity-monitor today --summary             # Today's usage grouped by app
  go-activity-monitor week                        # Trailing 7-day stats with trend
  go-activity-monitor range --from 2026-08-01 --to 2026-08-15
  go-activity-monitor task create --app Code --goal 2h
  go-activity-monitor export --from 2026-08-01 --to 2026-08-31 -o csv`,
		SilenceUsage: true,
	}
)

const defaultLogFile = "~/.go-activity-monitor/logs/app.log"

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", store.DefaultDBPath(),
		"SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for calendar-day bucketing (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initRuntime()
	}
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func initRuntime() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		// Fall back to console-only logging.
		logFile = ""
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := util.InitializeTimeProvider(timezone); err != nil {
		return err
	}

	dbPath = expandPath(dbPath)
	return nil
}

func openStore() (*store.Store, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open activity database: %w", err)
	}
	return s, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func validateOutputFormat() error {
	switch outputFormat {
	case "table", "json", "csv":
		return nil
	}
	return fmt.Errorf("unknown output format %q (expected table, json or csv)", outputFormat)
}
