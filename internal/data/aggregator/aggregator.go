// Package aggregator computes read-side summaries over stored sessions.
// It never mutates the store.
package aggregator

import (
	"fmt"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/data/store"
	"github.com/penwyp/go-activity-monitor/internal/util"
)

const (
	// maxResults caps every query so a pathological history cannot blow up
	// memory.
	maxResults = 1000
	maxDays    = 365
)

// Aggregator answers day, range, weekly and per-goal usage queries.
type Aggregator struct {
	store *store.Store
	tp    *util.TimeProvider
}

// New creates an Aggregator over the given store, using the globally
// configured timezone for calendar-day bucketing.
func New(s *store.Store) *Aggregator {
	return &Aggregator{store: s, tp: util.GetTimeProvider()}
}

// SessionsForDay returns all sessions whose start time falls on the local
// calendar day containing day, newest first.
func (a *Aggregator) SessionsForDay(day time.Time) ([]model.ActivitySession, error) {
	from := a.tp.StartOfDay(day)
	return a.store.SessionsBetween(from, from.AddDate(0, 0, 1), maxResults)
}

// SessionsInRange returns sessions started between the calendar days of
// from and to, inclusive on both ends, newest first.
func (a *Aggregator) SessionsInRange(from, to time.Time) ([]model.ActivitySession, error) {
	start := a.tp.StartOfDay(from)
	end := a.tp.StartOfDay(to).AddDate(0, 0, 1)
	if !start.Before(end) {
		return nil, fmt.Errorf("invalid range: from %s is after to %s",
			a.tp.DayKey(from), a.tp.DayKey(to))
	}
	return a.store.SessionsBetween(start, end, maxResults)
}

// TodaySessions returns today's sessions, newest first.
func (a *Aggregator) TodaySessions() ([]model.ActivitySession, error) {
	return a.SessionsForDay(a.tp.Now())
}

// SummaryForDay groups one calendar day's sessions by app, ordered by total
// duration descending.
func (a *Aggregator) SummaryForDay(day time.Time) ([]model.AppUsageSummary, error) {
	from := a.tp.StartOfDay(day)
	return a.store.SummaryBetween(from, from.AddDate(0, 0, 1), maxResults)
}

// TodaySummary groups today's sessions by app.
func (a *Aggregator) TodaySummary() ([]model.AppUsageSummary, error) {
	return a.SummaryForDay(a.tp.Now())
}

// TotalToday returns the total tracked seconds for today.
func (a *Aggregator) TotalToday() (int64, error) {
	summaries, err := a.TodaySummary()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, s := range summaries {
		total += s.TotalSeconds
	}
	return total, nil
}

// WeeklyStats buckets the trailing seven calendar days (today included) by
// local date, newest first. Days without sessions are omitted.
func (a *Aggregator) WeeklyStats() ([]model.DailyStats, error) {
	end := a.tp.StartOfDay(a.tp.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)

	sessions, err := a.store.SessionsBetween(start, end, maxResults)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total int64
		apps  map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, sess := range sessions {
		key := a.tp.DayKey(sess.StartTime)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{apps: make(map[string]struct{})}
			buckets[key] = b
		}
		b.total += clampSeconds(sess)
		b.apps[sess.AppName] = struct{}{}
	}

	var stats []model.DailyStats
	for day := end.AddDate(0, 0, -1); !day.Before(start); day = day.AddDate(0, 0, -1) {
		key := a.tp.DayKey(day)
		b, ok := buckets[key]
		if !ok {
			continue
		}
		stats = append(stats, model.DailyStats{
			Date:         key,
			TotalSeconds: b.total,
			AppCount:     int64(len(b.apps)),
		})
	}
	return stats, nil
}

// WeeklyTrend derives the average-per-day and most-active-day rollup from
// the weekly stats.
func (a *Aggregator) WeeklyTrend() (model.WeeklyTrend, error) {
	stats, err := a.WeeklyStats()
	if err != nil {
		return model.WeeklyTrend{}, err
	}

	trend := model.WeeklyTrend{DailyStats: stats}
	for _, day := range stats {
		trend.TotalSeconds += day.TotalSeconds
		if day.TotalSeconds > 0 &&
			(trend.MostActiveDay == "" || day.TotalSeconds > mostActiveTotal(stats, trend.MostActiveDay)) {
			trend.MostActiveDay = day.Date
		}
	}
	if len(stats) > 0 {
		trend.AverageSeconds = trend.TotalSeconds / int64(len(stats))
	}
	return trend, nil
}

// UsageSince sums tracked seconds for appName from since onward, optionally
// filtered by a case-sensitive window-title substring. No matches yields 0.
func (a *Aggregator) UsageSince(appName string, since time.Time, titleFilter string) (int64, error) {
	if appName == "" {
		return 0, fmt.Errorf("app name must not be empty")
	}
	return a.store.UsageSince(appName, since, titleFilter)
}

// TopApps returns the most used apps over the trailing days, clamped to
// sane bounds.
func (a *Aggregator) TopApps(days, limit int) ([]model.AppUsageSummary, error) {
	days = clampInt(days, 1, maxDays)
	limit = clampInt(limit, 1, maxResults)

	end := a.tp.StartOfDay(a.tp.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)
	return a.store.SummaryBetween(start, end, limit)
}

// RecentApps returns distinct app names seen in recent sessions, most
// recent first. Used for task-creation suggestions.
func (a *Aggregator) RecentApps() ([]string, error) {
	return a.store.RecentApps(50)
}

func mostActiveTotal(stats []model.DailyStats, date string) int64 {
	for _, day := range stats {
		if day.Date == date {
			return day.TotalSeconds
		}
	}
	return 0
}

func clampSeconds(sess model.ActivitySession) int64 {
	if sess.DurationSeconds < 0 {
		util.LogWarnf("Negative duration on session %d (%s), clamping to 0", sess.ID, sess.AppName)
		return 0
	}
	return sess.DurationSeconds
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
