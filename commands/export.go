package commands

import (
	"fmt"
	"os"

	"github.com/penwyp/go-activity-monitor/internal/data/aggregator"
	"github.com/penwyp/go-activity-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-activity-monitor/internal/util"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var (
	exportFrom string
	exportTo   string
	exportFile string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions in a date range as JSON or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (2006-01-02)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date (2006-01-02)")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "Write to file instead of stdout")
	exportCmd.MarkFlagRequired("from")
	exportCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validateOutputFormat(); err != nil {
		return err
	}
	if outputFormat == "table" {
		return fmt.Errorf("export supports json or csv output, use -o")
	}

	tp := util.GetTimeProvider()
	from, err := tp.ParseDate(exportFrom)
	if err != nil {
		return err
	}
	to, err := tp.ParseDate(exportTo)
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

	out := os.Stdout
	if exportFile != "" {
		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if outputFormat == "csv" {
		return formatter.NewCSVFormatterTo(out).Format(formatter.SessionsTable(sessions))
	}

	data, err := sonic.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return err
	}
	util.LogInfof("Exported %d sessions (%s to %s)", len(sessions), exportFrom, exportTo)
	return nil
}
