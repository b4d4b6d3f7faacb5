package formatter

import (
	"fmt"
	"strconv"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/util"
)

// Table is a rendered report: headers plus pre-formatted string rows.
// Flexible names the column that may be truncated to fit the terminal
// (-1 when every column is fixed).
type Table struct {
	Headers  []string
	Rows     [][]string
	Flexible int
}

// SessionsTable lays out session rows, newest first as queried.
func SessionsTable(sessions []model.ActivitySession) Table {
	t := Table{
		Headers:  []string{"ID", "App", "Window Title", "Start", "End", "Duration"},
		Flexible: 2,
	}
	for _, s := range sessions {
		end := "(open)"
		if s.EndTime != nil {
			end = util.FormatTimestamp(*s.EndTime)
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.AppName,
			s.WindowTitle,
			util.FormatTimestamp(s.StartTime),
			end,
			util.FormatSeconds(s.DurationSeconds),
		})
	}
	return t
}

// SummaryTable lays out per-app usage summaries.
func SummaryTable(summaries []model.AppUsageSummary) Table {
	t := Table{
		Headers:  []string{"App", "Executable", "Total", "Sessions"},
		Flexible: 1,
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.AppName,
			s.ExePath,
			util.FormatSeconds(s.TotalSeconds),
			strconv.FormatInt(s.SessionCount, 10),
		})
	}
	return t
}

// WeeklyTable lays out daily stats with the trend rollup appended.
func WeeklyTable(trend model.WeeklyTrend) Table {
	t := Table{
		Headers:  []string{"Date", "Tracked", "Apps"},
		Flexible: -1,
	}
	for _, day := range trend.DailyStats {
		t.Rows = append(t.Rows, []string{
			day.Date,
			util.FormatSeconds(day.TotalSeconds),
			strconv.FormatInt(day.AppCount, 10),
		})
	}
	t.Rows = append(t.Rows, []string{"Average/day", util.FormatSeconds(trend.AverageSeconds), ""})
	if trend.MostActiveDay != "" {
		t.Rows = append(t.Rows, []string{"Most active", trend.MostActiveDay, ""})
	}
	return t
}

// TasksTable lays out goals with their current progress.
func TasksTable(tasks []model.Task, progress map[int64]int64) Table {
	t := Table{
		Headers:  []string{"ID", "App", "Goal", "Progress", "Status", "Filter"},
		Flexible: 5,
	}
	for _, task := range tasks {
		done := progress[task.ID]
		pct := 0.0
		if task.GoalSeconds > 0 {
			pct = float64(done) / float64(task.GoalSeconds) * 100
			if pct > 100 {
				pct = 100
			}
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(task.ID, 10),
			task.AppName,
			util.FormatSeconds(task.GoalSeconds),
			fmt.Sprintf("%s (%.0f%%)", util.FormatSeconds(done), pct),
			string(task.Status),
			task.TitleFilter,
		})
	}
	return t
}
