package aggregator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/data/store"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T) (*Aggregator, *store.Store) {
	t.Helper()
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	s, err := store.Open(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func seedSession(t *testing.T, s *store.Store, app, title string, start time.Time, seconds int64) {
	t.Helper()
	id, err := s.InsertOpenSession(app, title, "C:\\apps\\"+app+".exe", start)
	require.NoError(t, err)
	require.NoError(t, s.CloseSession(id, start.Add(time.Duration(seconds)*time.Second), seconds))
}

// dayStart is midnight of today in the configured timezone; seeding at a
// positive offset from it keeps every test on a known calendar day.
func dayStart() time.Time {
	return util.GetTimeProvider().StartOfDay(util.GetTimeProvider().Now())
}

func TestSessionsForDayBucketsByCalendarDay(t *testing.T) {
	agg, s := newTestAggregator(t)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, "Code", "main.go", day.Add(9*time.Hour), 60)
	seedSession(t, s, "Code", "late", day.Add(23*time.Hour+59*time.Minute), 30)
	// One second past midnight belongs to the next day.
	seedSession(t, s, "Firefox", "next day", day.AddDate(0, 0, 1).Add(time.Second), 30)

	sessions, err := agg.SessionsForDay(day.Add(15 * time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Newest first.
	assert.Equal(t, "late", sessions[0].WindowTitle)
	assert.Equal(t, "main.go", sessions[1].WindowTitle)
}

func TestSessionsInRangeInclusiveBothEnds(t *testing.T) {
	agg, s := newTestAggregator(t)

	from := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, "A", "t", from.Add(10*time.Hour), 60)
	seedSession(t, s, "B", "t", to.Add(22*time.Hour), 60)
	seedSession(t, s, "C", "t", to.AddDate(0, 0, 1).Add(time.Hour), 60)

	sessions, err := agg.SessionsInRange(from, to)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "B", sessions[0].AppName)
	assert.Equal(t, "A", sessions[1].AppName)
}

func TestSessionsInRangeSingleDayEqualsDayQuery(t *testing.T) {
	agg, s := newTestAggregator(t)

	day := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, "A", "t", day.Add(9*time.Hour), 60)

	ranged, err := agg.SessionsInRange(day, day)
	require.NoError(t, err)
	daily, err := agg.SessionsForDay(day)
	require.NoError(t, err)
	assert.Equal(t, daily, ranged)
}

func TestSessionsInRangeRejectsReversedRange(t *testing.T) {
	agg, _ := newTestAggregator(t)

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	_, err := agg.SessionsInRange(from, to)
	require.Error(t, err)
}

func TestTodaySummaryOrdering(t *testing.T) {
	agg, s := newTestAggregator(t)

	base := dayStart()
	seedSession(t, s, "AppA", "one", base.Add(time.Hour), 100)
	seedSession(t, s, "AppA", "two", base.Add(2*time.Hour), 50)
	seedSession(t, s, "AppB", "x", base.Add(3*time.Hour), 30)

	summaries, err := agg.TodaySummary()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "AppA", summaries[0].AppName)
	assert.Equal(t, int64(150), summaries[0].TotalSeconds)
	assert.Equal(t, int64(2), summaries[0].SessionCount)
	assert.Equal(t, "AppB", summaries[1].AppName)
	assert.Equal(t, int64(30), summaries[1].TotalSeconds)
}

func TestTotalToday(t *testing.T) {
	agg, s := newTestAggregator(t)

	base := dayStart()
	seedSession(t, s, "AppA", "t", base.Add(time.Hour), 100)
	seedSession(t, s, "AppB", "t", base.Add(2*time.Hour), 40)
	// Yesterday must not count.
	seedSession(t, s, "AppA", "t", base.AddDate(0, 0, -1).Add(time.Hour), 999)

	total, err := agg.TotalToday()
	require.NoError(t, err)
	assert.Equal(t, int64(140), total)
}

func TestWeeklyStats(t *testing.T) {
	agg, s := newTestAggregator(t)

	base := dayStart()
	seedSession(t, s, "AppA", "t", base.Add(time.Hour), 100)
	seedSession(t, s, "AppB", "t", base.Add(2*time.Hour), 50)
	seedSession(t, s, "AppA", "t", base.AddDate(0, 0, -2).Add(time.Hour), 200)
	// Eight days back falls outside the trailing week.
	seedSession(t, s, "AppA", "t", base.AddDate(0, 0, -8).Add(time.Hour), 999)

	stats, err := agg.WeeklyStats()
	require.NoError(t, err)
	require.Len(t, stats, 2, "empty days are omitted")

	tp := util.GetTimeProvider()
	assert.Equal(t, tp.DayKey(base), stats[0].Date)
	assert.Equal(t, int64(150), stats[0].TotalSeconds)
	assert.Equal(t, int64(2), stats[0].AppCount)

	assert.Equal(t, tp.DayKey(base.AddDate(0, 0, -2)), stats[1].Date)
	assert.Equal(t, int64(200), stats[1].TotalSeconds)
	assert.Equal(t, int64(1), stats[1].AppCount)
}

func TestWeeklyTrendRollup(t *testing.T) {
	agg, s := newTestAggregator(t)

	base := dayStart()
	seedSession(t, s, "AppA", "t", base.Add(time.Hour), 100)
	seedSession(t, s, "AppA", "t", base.AddDate(0, 0, -1).Add(time.Hour), 300)

	trend, err := agg.WeeklyTrend()
	require.NoError(t, err)
	assert.Equal(t, int64(400), trend.TotalSeconds)
	assert.Equal(t, int64(200), trend.AverageSeconds)
	assert.Equal(t, util.GetTimeProvider().DayKey(base.AddDate(0, 0, -1)), trend.MostActiveDay)
	assert.Len(t, trend.DailyStats, 2)
}

func TestWeeklyTrendEmpty(t *testing.T) {
	agg, _ := newTestAggregator(t)

	trend, err := agg.WeeklyTrend()
	require.NoError(t, err)
	assert.Zero(t, trend.TotalSeconds)
	assert.Zero(t, trend.AverageSeconds)
	assert.Empty(t, trend.MostActiveDay)
	assert.Empty(t, trend.DailyStats)
}

func TestUsageSince(t *testing.T) {
	agg, s := newTestAggregator(t)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, "Firefox", "Docs - intro", day.Add(9*time.Hour), 100)
	seedSession(t, s, "Firefox", "News", day.Add(10*time.Hour), 40)

	total, err := agg.UsageSince("Firefox", day, "")
	require.NoError(t, err)
	assert.Equal(t, int64(140), total)

	total, err = agg.UsageSince("Firefox", day, "Docs")
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	total, err = agg.UsageSince("Ghost", day, "")
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = agg.UsageSince("", day, "")
	require.Error(t, err)
}

func TestTopAppsClampsArguments(t *testing.T) {
	agg, s := newTestAggregator(t)

	base := dayStart()
	seedSession(t, s, "AppA", "t", base.Add(time.Hour), 300)
	seedSession(t, s, "AppB", "t", base.Add(2*time.Hour), 100)

	// Nonsense arguments fall back to sane bounds instead of failing.
	top, err := agg.TopApps(-5, 0)
	require.NoError(t, err)
	require.Len(t, top, 1, "limit clamps up to 1")
	assert.Equal(t, "AppA", top[0].AppName)

	top, err = agg.TopApps(7, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "AppA", top[0].AppName)
	assert.Equal(t, "AppB", top[1].AppName)
}

func TestRecentApps(t *testing.T) {
	agg, s := newTestAggregator(t)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedSession(t, s, "A", "t", day.Add(9*time.Hour), 10)
	seedSession(t, s, "B", "t", day.Add(10*time.Hour), 10)

	apps, err := agg.RecentApps()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, apps)
}
