package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatterTo(&buf).Format(Table{Headers: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, "No data.\n", buf.String())
}

func TestTableFormatterRendersBordersAndCells(t *testing.T) {
	var buf bytes.Buffer
	table := Table{
		Headers:  []string{"App", "Total"},
		Rows:     [][]string{{"Code", "1h 0m 0s"}, {"Firefox", "5m 0s"}},
		Flexible: -1,
	}
	require.NoError(t, NewTableFormatterTo(&buf).Format(table))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Border, header, border, two rows, border.
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "+"))
	assert.Contains(t, lines[1], "App")
	assert.Contains(t, lines[1], "Total")
	assert.Contains(t, lines[3], "Code")
	assert.Contains(t, lines[4], "Firefox")
	assert.Equal(t, lines[0], lines[2])
	assert.Equal(t, lines[0], lines[5])

	// Columns align: every line has the same display width.
	for _, line := range lines[1:] {
		assert.Equal(t, util.DisplayWidth(lines[0]), util.DisplayWidth(line))
	}
}

func TestTableFormatterPadsShortRows(t *testing.T) {
	var buf bytes.Buffer
	table := Table{
		Headers:  []string{"A", "B", "C"},
		Rows:     [][]string{{"only one"}},
		Flexible: -1,
	}
	require.NoError(t, NewTableFormatterTo(&buf).Format(table))
	assert.Contains(t, buf.String(), "only one")
}

func TestSessionsTableMarksOpenSession(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	table := SessionsTable([]model.ActivitySession{
		{ID: 2, AppName: "Code", WindowTitle: "main.go", StartTime: end},
		{ID: 1, AppName: "Firefox", WindowTitle: "Docs", StartTime: start, EndTime: &end, DurationSeconds: 60},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "(open)", table.Rows[0][4])
	assert.Equal(t, "2026-08-31 09:01:00", table.Rows[1][4])
	assert.Equal(t, "1m 0s", table.Rows[1][5])
}

func TestWeeklyTableAppendsRollup(t *testing.T) {
	trend := model.WeeklyTrend{
		DailyStats: []model.DailyStats{
			{Date: "2026-08-31", TotalSeconds: 3600, AppCount: 2},
		},
		TotalSeconds:   3600,
		AverageSeconds: 3600,
		MostActiveDay:  "2026-08-31",
	}
	table := WeeklyTable(trend)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Average/day", table.Rows[1][0])
	assert.Equal(t, "1h 0m 0s", table.Rows[1][1])
	assert.Equal(t, "Most active", table.Rows[2][0])
	assert.Equal(t, "2026-08-31", table.Rows[2][1])
}

func TestTasksTableProgress(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, AppName: "Code", GoalSeconds: 100, Status: model.TaskActive},
		{ID: 2, AppName: "Firefox", GoalSeconds: 100, Status: model.TaskCompleted},
	}
	table := TasksTable(tasks, map[int64]int64{1: 50, 2: 250})

	require.Len(t, table.Rows, 2)
	assert.Contains(t, table.Rows[0][3], "(50%)")
	// Progress is capped at 100% even when usage overshoots the goal.
	assert.Contains(t, table.Rows[1][3], "(100%)")
	assert.Equal(t, "completed", table.Rows[1][4])
}
