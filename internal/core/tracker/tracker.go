// Package tracker owns the polling loop that turns raw foreground-window
// samples into well-formed session records.
package tracker

import (
	"sync"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/platform"
	"github.com/penwyp/go-activity-monitor/internal/util"
)

// DefaultInterval is the desktop polling cadence.
const DefaultInterval = time.Second

// SessionStore is the tracker's write-side view of persistence.
type SessionStore interface {
	InsertOpenSession(appName, windowTitle, exePath string, start time.Time) (int64, error)
	CloseSession(id int64, end time.Time, durationSeconds int64) error
}

// Config assembles a Tracker.
type Config struct {
	Probe    platform.Probe
	Store    SessionStore
	Interval time.Duration

	// OnSessionClose is invoked after every session close with the closed
	// session's app name. Used for goal evaluation. May be nil.
	OnSessionClose func(appName string)

	// Clock overrides the time source, for tests. Defaults to the
	// timezone-aware provider.
	Clock func() time.Time
}

// Tracker keeps the store's open session in sync with the foreground
// window. At most one session is open at any instant; Start and Stop are
// idempotent.
type Tracker struct {
	probe    platform.Probe
	store    SessionStore
	interval time.Duration
	onClose  func(string)
	clock    func() time.Time

	// lifecycle serializes Start/Stop so a Start issued mid-shutdown cannot
	// steal the cache before the old worker closed its session.
	lifecycle sync.Mutex

	mu      sync.Mutex
	running bool
	current *model.CurrentSession
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped Tracker.
func New(cfg Config) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return util.GetTimeProvider().Now() }
	}
	return &Tracker{
		probe:    cfg.Probe,
		store:    cfg.Store,
		interval: interval,
		onClose:  cfg.OnSessionClose,
		clock:    clock,
	}
}

// Start spawns the polling worker. Calling Start on a running tracker is a
// no-op, so two workers can never race over the open session.
func (t *Tracker) Start() {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.current = nil
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	stop, done := t.stop, t.done
	t.mu.Unlock()

	go t.run(stop, done)
	util.LogInfof("Tracking started (interval %s)", t.interval)
}

// Stop signals the worker and waits until the in-flight session, if any,
// has been closed. Stopping a stopped tracker is a no-op.
func (t *Tracker) Stop() {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
	util.LogInfo("Tracking stopped")
}

// IsTracking reports whether the polling worker is active.
func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// CurrentSession returns a copy of the cached open session, or nil when
// stopped or nothing has been tracked yet.
func (t *Tracker) CurrentSession() *model.CurrentSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	c := *t.current
	return &c
}

// CurrentActive is a best-effort snapshot of the live foreground window.
// When the probe cannot answer (coarse-grained platforms, locked screen)
// the cached session's identity is returned as a stale approximation.
func (t *Tracker) CurrentActive() *model.ActiveWindow {
	if active := t.probe.Poll(); active != nil {
		return active
	}
	if current := t.CurrentSession(); current != nil {
		w := current.Window()
		return &w
	}
	return nil
}

func (t *Tracker) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.pollOnce()
	for {
		select {
		case <-stop:
			t.closeCurrent()
			return
		case <-ticker.C:
			t.pollOnce()
		}
	}
}

// pollOnce samples the probe and rotates the open session when the
// foreground target changed. A probe miss leaves everything untouched;
// the next tick retries.
func (t *Tracker) pollOnce() {
	active := t.probe.Poll()
	if active == nil {
		return
	}

	t.mu.Lock()
	if t.current != nil && t.current.Window().SameTarget(*active) {
		t.mu.Unlock()
		return
	}

	// Close and open share one observed instant so consecutive sessions
	// tile without gaps, and both happen under the lock so readers never
	// see a transient nil between two live sessions.
	now := t.clock()
	closedApp := t.closeLocked(now)

	id, err := t.store.InsertOpenSession(active.AppName, active.WindowTitle, active.ExePath, now)
	if err != nil {
		util.LogErrorf("Failed to open session for %s: %v", active.AppName, err)
		t.current = nil
	} else {
		t.current = &model.CurrentSession{
			ID:          id,
			AppName:     active.AppName,
			WindowTitle: active.WindowTitle,
			ExePath:     active.ExePath,
			StartTime:   now,
		}
		util.LogDebugf("Opened session %d: %s (%s)", id, active.AppName, active.WindowTitle)
	}
	t.mu.Unlock()

	if closedApp != "" && t.onClose != nil {
		t.onClose(closedApp)
	}
}

// closeCurrent closes the cached session, if any. Called on shutdown.
func (t *Tracker) closeCurrent() {
	t.mu.Lock()
	closedApp := t.closeLocked(t.clock())
	t.mu.Unlock()

	if closedApp != "" && t.onClose != nil {
		t.onClose(closedApp)
	}
}

// closeLocked writes the end time of the cached session and clears the
// cache. The cache is cleared even when the write fails: losing one row's
// end time is preferable to wedging the tracker on a sick store. Returns
// the closed session's app name, or "".
func (t *Tracker) closeLocked(now time.Time) string {
	if t.current == nil {
		return ""
	}

	session := t.current
	t.current = nil

	duration := int64(now.Sub(session.StartTime).Seconds())
	if duration < 0 {
		util.LogWarnf("Session %d ends before it starts (%s > %s), clamping duration to 0",
			session.ID, session.StartTime, now)
		duration = 0
	}

	if err := t.store.CloseSession(session.ID, now, duration); err != nil {
		util.LogErrorf("Failed to close session %d: %v", session.ID, err)
	} else {
		util.LogDebugf("Closed session %d after %ds", session.ID, duration)
	}
	return session.AppName
}
