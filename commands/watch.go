package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/data/aggregator"
	"github.com/penwyp/go-activity-monitor/internal/data/watch"
	"github.com/penwyp/go-activity-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/spf13/cobra"
)

var watchThrottle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live today-summary view, refreshed when the database changes",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchThrottle, "throttle", 2*time.Second,
		"Minimum delay between refreshes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	agg := aggregator.New(s)

	watcher, err := watch.NewFileWatcher(s.Path(), watchThrottle)
	if err != nil {
		return fmt.Errorf("watch database: %w", err)
	}
	defer watcher.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Periodic fallback keeps the view fresh even when fsnotify misses
	// WAL checkpoint writes.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	render := func() {
		summaries, err := agg.TodaySummary()
		if err != nil {
			util.LogErrorf("Refresh failed: %v", err)
			return
		}
		total, err := agg.TotalToday()
		if err != nil {
			util.LogErrorf("Refresh failed: %v", err)
			return
		}
		tp := util.GetTimeProvider()
		fmt.Printf("\033[2J\033[HToday: %s tracked, as of %s\n\n",
			util.FormatSeconds(total), tp.Format(tp.Now(), "15:04:05"))
		formatter.NewTableFormatter().Format(formatter.SummaryTable(summaries))
	}

	render()
	for {
		select {
		case <-watcher.Events():
			render()
		case <-ticker.C:
			render()
		case <-sigCh:
			return nil
		}
	}
}
