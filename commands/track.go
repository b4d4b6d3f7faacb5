package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/config"
	"github.com/penwyp/go-activity-monitor/internal/core/goal"
	"github.com/penwyp/go-activity-monitor/internal/core/tracker"
	"github.com/penwyp/go-activity-monitor/internal/data/aggregator"
	"github.com/penwyp/go-activity-monitor/internal/platform"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/spf13/cobra"
)

var trackInterval time.Duration

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run the foreground-activity tracker until interrupted",
	RunE:  runTrack,
}

func init() {
	trackCmd.Flags().DurationVar(&trackInterval, "interval", 0,
		"Polling interval (0 = use the stored setting)")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	settings, err := config.Load(s)
	if err != nil {
		return err
	}
	interval := trackInterval
	if interval <= 0 {
		interval = settings.PollInterval
	}

	if _, err := s.ReconcileOpenSessions(); err != nil {
		return err
	}

	agg := aggregator.New(s)
	evaluator := goal.New(s, agg, nil)

	t := tracker.New(tracker.Config{
		Probe:          platform.NewProbe(),
		Store:          s,
		Interval:       interval,
		OnSessionClose: evaluator.SessionClosed,
	})

	t.Start()
	fmt.Fprintf(os.Stderr, "Tracking foreground activity every %s. Press Ctrl+C to stop.\n", interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	util.LogInfof("Received %s, shutting down", sig)

	// Stop returns only after the in-flight session is closed, so the
	// store can be released safely.
	t.Stop()
	return nil
}
