package model

import "time"

// ActiveWindow is a snapshot of the foreground window as reported by the
// platform probe. It carries no identity beyond what the OS exposes.
type ActiveWindow struct {
	AppName     string `json:"appName"`
	WindowTitle string `json:"windowTitle"`
	ExePath     string `json:"exePath"`
}

// SameTarget reports whether two probe results point at the same
// (executable, window title) pair. A title change within the same
// application counts as a different target.
func (w ActiveWindow) SameTarget(other ActiveWindow) bool {
	return w.ExePath == other.ExePath && w.WindowTitle == other.WindowTitle
}

// ActivitySession is one contiguous interval during which a single
// (app, window title) pair was foregrounded.
type ActivitySession struct {
	ID              int64      `json:"id"`
	AppName         string     `json:"appName"`
	WindowTitle     string     `json:"windowTitle"`
	ExePath         string     `json:"exePath"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationSeconds int64      `json:"durationSeconds"`
}

// IsOpen reports whether the session has not been closed yet.
func (s ActivitySession) IsOpen() bool {
	return s.EndTime == nil
}

// CurrentSession mirrors the most recently opened session. It is owned by
// the tracker and lets callers answer "what is active right now" without a
// store round-trip.
type CurrentSession struct {
	ID          int64     `json:"id"`
	AppName     string    `json:"appName"`
	WindowTitle string    `json:"windowTitle"`
	ExePath     string    `json:"exePath"`
	StartTime   time.Time `json:"startTime"`
}

// Window returns the probe-level identity of the cached session.
func (c CurrentSession) Window() ActiveWindow {
	return ActiveWindow{
		AppName:     c.AppName,
		WindowTitle: c.WindowTitle,
		ExePath:     c.ExePath,
	}
}
