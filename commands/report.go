package commands

import (
	"fmt"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/data/aggregator"
	"github.com/penwyp/go-activity-monitor/internal/platform"
	"github.com/penwyp/go-activity-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	todaySummary bool
	todayDate    string
	rangeFrom    string
	rangeTo      string
	topDays      int
	topLimit     int
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's sessions, or per-app summary with --summary",
	RunE:  runToday,
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the trailing 7-day stats with the trend rollup",
	RunE:  runWeek,
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Show sessions between two dates (inclusive)",
	RunE:  runRange,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most used apps over the trailing days",
	RunE:  runTop,
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Probe the live foreground window",
	RunE:  runCurrent,
}

func init() {
	todayCmd.Flags().BoolVar(&todaySummary, "summary", false,
		"Group by app instead of listing sessions")
	todayCmd.Flags().StringVar(&todayDate, "date", "",
		"Report another calendar day (2006-01-02) instead of today")
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "Start date (2006-01-02)")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "", "End date (2006-01-02)")
	rangeCmd.MarkFlagRequired("from")
	rangeCmd.MarkFlagRequired("to")
	topCmd.Flags().IntVar(&topDays, "days", 7, "Trailing days to consider")
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "Number of apps to show")

	rootCmd.AddCommand(todayCmd, weekCmd, rangeCmd, topCmd, currentCmd)
}

// renderReport sends typed data to the JSON formatter and the rendered
// table everywhere else.
func renderReport(data interface{}, table formatter.Table) error {
	if err := validateOutputFormat(); err != nil {
		return err
	}
	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().Format(data)
	case "csv":
		return formatter.NewCSVFormatter().Format(table)
	default:
		return formatter.NewTableFormatter().Format(table)
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	tp := util.GetTimeProvider()
	day := tp.Now()
	if todayDate != "" {
		parsed, err := tp.ParseDate(todayDate)
		if err != nil {
			return err
		}
		day = parsed
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	agg := aggregator.New(s)

	if todaySummary {
		summaries, err := agg.SummaryForDay(day)
		if err != nil {
			return err
		}
		return renderReport(summaries, formatter.SummaryTable(summaries))
	}

	sessions, err := agg.SessionsForDay(day)
	if err != nil {
		return err
	}
	return renderReport(sessions, formatter.SessionsTable(sessions))
}

func runWeek(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	trend, err := aggregator.New(s).WeeklyTrend()
	if err != nil {
		return err
	}
	return renderReport(trend, formatter.WeeklyTable(trend))
}

func runRange(cmd *cobra.Command, args []string) error {
	tp := util.GetTimeProvider()
	from, err := tp.ParseDate(rangeFrom)
	if err != nil {
		return err
	}
	to, err := tp.ParseDate(rangeTo)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sessions, err := aggregator.New(s).SessionsInRange(from, to)
	if err != nil {
		return err
	}
	return renderReport(sessions, formatter.SessionsTable(sessions))
}

func runTop(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	summaries, err := aggregator.New(s).TopApps(topDays, topLimit)
	if err != nil {
		return err
	}
	return renderReport(summaries, formatter.SummaryTable(summaries))
}

func runCurrent(cmd *cobra.Command, args []string) error {
	active := platform.NewProbe().Poll()
	if active == nil {
		// Fall back to the session a running tracker has open; this command
		// may be invoked from a shell the probe cannot serve.
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		open, err := s.OpenSessions()
		if err != nil {
			return err
		}
		if len(open) == 0 {
			fmt.Println("No foreground window reported and no session is open.")
			return nil
		}
		last := open[len(open)-1]
		active = &model.ActiveWindow{
			AppName:     last.AppName,
			WindowTitle: last.WindowTitle,
			ExePath:     last.ExePath,
		}
	}
	if outputFormat == "json" {
		return formatter.NewJSONFormatter().Format(active)
	}
	fmt.Printf("%s: %s (%s)\n", active.AppName, active.WindowTitle, active.ExePath)
	return nil
}
