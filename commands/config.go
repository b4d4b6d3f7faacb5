package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/config"
	"github.com/penwyp/go-activity-monitor/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var (
	setLanguage       string
	setTheme          string
	setAutostart      bool
	setMinimizeToTray bool
	setPollInterval   time.Duration
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change persisted settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update one or more settings",
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Flags().StringVar(&setLanguage, "language", "", "UI language code")
	configSetCmd.Flags().StringVar(&setTheme, "theme", "", "UI theme (dark, light)")
	configSetCmd.Flags().BoolVar(&setAutostart, "autostart", true, "Start tracking on login")
	configSetCmd.Flags().BoolVar(&setMinimizeToTray, "minimize-to-tray", true, "Minimize to tray on close")
	configSetCmd.Flags().DurationVar(&setPollInterval, "poll-interval", 0, "Tracker polling interval")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	settings, err := config.Load(s)
	if err != nil {
		return err
	}
	return formatter.NewJSONFormatter().Format(settings)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	settings, err := config.Load(s)
	if err != nil {
		return err
	}

	changed := false
	if cmd.Flags().Changed("language") {
		settings.Language = setLanguage
		changed = true
	}
	if cmd.Flags().Changed("theme") {
		settings.Theme = setTheme
		changed = true
	}
	if cmd.Flags().Changed("autostart") {
		settings.Autostart = setAutostart
		changed = true
	}
	if cmd.Flags().Changed("minimize-to-tray") {
		settings.MinimizeToTray = setMinimizeToTray
		changed = true
	}
	if cmd.Flags().Changed("poll-interval") {
		settings.PollInterval = setPollInterval
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to change, pass at least one flag")
	}

	if err := config.Save(s, settings); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}
