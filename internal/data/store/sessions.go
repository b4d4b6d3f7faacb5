package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
)

// InsertOpenSession creates a new session row with a NULL end_time and
// returns its id.
func (s *Store) InsertOpenSession(appName, windowTitle, exePath string, start time.Time) (int64, error) {
	for field, value := range map[string]string{
		"app_name": appName, "window_title": windowTitle, "exe_path": exePath,
	} {
		if err := sanitizeText(value, field); err != nil {
			return 0, err
		}
	}
	res, err := s.db.Exec(
		`INSERT INTO activity_sessions (app_name, window_title, exe_path, start_time) VALUES (?, ?, ?, ?)`,
		appName, windowTitle, exePath, start.Unix())
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	return id, nil
}

// CloseSession sets the end time and duration of a session. The duration is
// supplied by the caller so that close and the subsequent open can share one
// observed instant.
func (s *Store) CloseSession(id int64, end time.Time, durationSeconds int64) error {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	res, err := s.db.Exec(
		`UPDATE activity_sessions SET end_time = ?, duration_seconds = ? WHERE id = ? AND end_time IS NULL`,
		end.Unix(), durationSeconds, id)
	if err != nil {
		return fmt.Errorf("close session %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("close session %d: no open session with that id", id)
	}
	return nil
}

// OpenSessions returns all rows with a NULL end_time, oldest first. Under
// normal operation there is at most one.
func (s *Store) OpenSessions() ([]model.ActivitySession, error) {
	rows, err := s.db.Query(
		`SELECT id, app_name, window_title, exe_path, start_time, end_time, duration_seconds
		 FROM activity_sessions WHERE end_time IS NULL ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("query open sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// SessionsBetween returns sessions whose start_time lies in [from, to),
// newest first, capped at limit rows.
func (s *Store) SessionsBetween(from, to time.Time, limit int) ([]model.ActivitySession, error) {
	rows, err := s.db.Query(
		`SELECT id, app_name, window_title, exe_path, start_time, end_time, duration_seconds
		 FROM activity_sessions
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time DESC
		 LIMIT ?`,
		from.Unix(), to.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// SummaryBetween groups sessions started in [from, to) by app name, summing
// durations, ordered by total descending.
func (s *Store) SummaryBetween(from, to time.Time, limit int) ([]model.AppUsageSummary, error) {
	rows, err := s.db.Query(
		`SELECT app_name, MIN(exe_path), SUM(duration_seconds) AS total, COUNT(*) AS cnt
		 FROM activity_sessions
		 WHERE start_time >= ? AND start_time < ?
		 GROUP BY app_name
		 ORDER BY total DESC
		 LIMIT ?`,
		from.Unix(), to.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summaries []model.AppUsageSummary
	for rows.Next() {
		var sum model.AppUsageSummary
		if err := rows.Scan(&sum.AppName, &sum.ExePath, &sum.TotalSeconds, &sum.SessionCount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if sum.TotalSeconds < 0 {
			sum.TotalSeconds = 0
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// UsageSince sums durations of sessions for appName starting at or after
// since, optionally restricted to window titles containing titleFilter.
// An empty result is 0, not an error.
func (s *Store) UsageSince(appName string, since time.Time, titleFilter string) (int64, error) {
	query := `SELECT COALESCE(SUM(duration_seconds), 0) FROM activity_sessions WHERE app_name = ? AND start_time >= ?`
	args := []interface{}{appName, since.Unix()}
	if titleFilter != "" {
		query += ` AND instr(window_title, ?) > 0`
		args = append(args, titleFilter)
	}

	var total int64
	if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("query usage since: %w", err)
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

// RecentApps returns distinct app names from the most recent sessions.
func (s *Store) RecentApps(limit int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT app_name FROM activity_sessions ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent apps: %w", err)
	}
	defer rows.Close()

	var apps []string
	for rows.Next() {
		var app string
		if err := rows.Scan(&app); err != nil {
			return nil, fmt.Errorf("scan app name: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func scanSessions(rows *sql.Rows) ([]model.ActivitySession, error) {
	var sessions []model.ActivitySession
	for rows.Next() {
		var (
			sess     model.ActivitySession
			startSec int64
			endSec   sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &sess.AppName, &sess.WindowTitle, &sess.ExePath,
			&startSec, &endSec, &sess.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartTime = time.Unix(startSec, 0)
		if endSec.Valid {
			end := time.Unix(endSec.Int64, 0)
			sess.EndTime = &end
		}
		if sess.DurationSeconds < 0 {
			sess.DurationSeconds = 0
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// sanitizeText rejects inputs that cannot come from a real window and would
// only bloat the database.
func sanitizeText(value, field string) error {
	const maxLen = 1024
	if len(value) > maxLen {
		return fmt.Errorf("%s exceeds maximum length of %d bytes", field, maxLen)
	}
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("%s contains NUL byte", field)
	}
	return nil
}
