package tracker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	mu  sync.Mutex
	win *model.ActiveWindow
}

func (p *fakeProbe) set(win *model.ActiveWindow) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.win = win
}

func (p *fakeProbe) Poll() *model.ActiveWindow {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.win == nil {
		return nil
	}
	w := *p.win
	return &w
}

type storedSession struct {
	id       int64
	appName  string
	title    string
	exePath  string
	start    time.Time
	end      *time.Time
	duration int64
}

type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	sessions  []*storedSession
	failClose bool
}

func (s *fakeStore) InsertOpenSession(appName, windowTitle, exePath string, start time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.sessions = append(s.sessions, &storedSession{
		id: s.nextID, appName: appName, title: windowTitle, exePath: exePath, start: start,
	})
	return s.nextID, nil
}

func (s *fakeStore) CloseSession(id int64, end time.Time, durationSeconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failClose {
		return errors.New("store unavailable")
	}
	for _, sess := range s.sessions {
		if sess.id == id {
			e := end
			sess.end = &e
			sess.duration = durationSeconds
			return nil
		}
	}
	return errors.New("no such session")
}

func (s *fakeStore) snapshot() []storedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storedSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = *sess
	}
	return out
}

func (s *fakeStore) openCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, sess := range s.sessions {
		if sess.end == nil {
			count++
		}
	}
	return count
}

func window(app, title string) *model.ActiveWindow {
	return &model.ActiveWindow{AppName: app, WindowTitle: title, ExePath: app + ".exe"}
}

func newTestTracker(probe *fakeProbe, store *fakeStore) *Tracker {
	return New(Config{Probe: probe, Store: store, Interval: 5 * time.Millisecond})
}

func TestStartStopIdempotent(t *testing.T) {
	probe := &fakeProbe{}
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	tr.Start()
	assert.True(t, tr.IsTracking())

	tr.Stop()
	tr.Stop()
	assert.False(t, tr.IsTracking())
	assert.Nil(t, tr.CurrentSession())
}

func TestDoubleStartOpensSingleSession(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	tr.Start()
	defer tr.Stop()

	require.Eventually(t, func() bool {
		return len(store.snapshot()) > 0
	}, time.Second, time.Millisecond)

	// Let a few more ticks pass; an unchanged target must not open rows.
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, store.snapshot(), 1)
	assert.Equal(t, 1, store.openCount())
}

func TestSessionRotationOnTargetChange(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	defer tr.Stop()

	require.Eventually(t, func() bool {
		return len(store.snapshot()) == 1
	}, time.Second, time.Millisecond)

	probe.set(window("Firefox", "Docs"))
	require.Eventually(t, func() bool {
		return len(store.snapshot()) == 2
	}, time.Second, time.Millisecond)

	sessions := store.snapshot()
	first, second := sessions[0], sessions[1]
	require.NotNil(t, first.end, "previous session must be closed")
	assert.Equal(t, "Code", first.appName)
	assert.Equal(t, "Firefox", second.appName)
	// Close and open share one instant, so continuous tracking has no gaps.
	assert.True(t, first.end.Equal(second.start),
		"end of first (%s) should equal start of second (%s)", first.end, second.start)
	assert.Equal(t, 1, store.openCount())
}

func TestTitleChangeIsNewSession(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Firefox", "Tab A"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	defer tr.Stop()

	require.Eventually(t, func() bool { return len(store.snapshot()) == 1 }, time.Second, time.Millisecond)

	probe.set(window("Firefox", "Tab B"))
	require.Eventually(t, func() bool { return len(store.snapshot()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, store.openCount())
}

func TestProbeMissLeavesStateUntouched(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	defer tr.Stop()

	require.Eventually(t, func() bool { return len(store.snapshot()) == 1 }, time.Second, time.Millisecond)

	// Probe goes dark (locked screen); the open session must survive.
	probe.set(nil)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, store.snapshot(), 1)
	assert.Equal(t, 1, store.openCount())
	require.NotNil(t, tr.CurrentSession())
	assert.Equal(t, "Code", tr.CurrentSession().AppName)
}

func TestStopClosesOpenSession(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	require.Eventually(t, func() bool { return store.openCount() == 1 }, time.Second, time.Millisecond)

	tr.Stop()

	// By the time Stop returns, the session must have an end time.
	assert.Equal(t, 0, store.openCount())
	sessions := store.snapshot()
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].end)
	assert.GreaterOrEqual(t, sessions[0].duration, int64(0))
}

func TestCloseFailureClearsCache(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}

	clock := time.Now()
	tr := New(Config{
		Probe: probe, Store: store, Interval: time.Hour,
		Clock: func() time.Time { return clock },
	})

	tr.pollOnce()
	require.NotNil(t, tr.CurrentSession())

	store.failClose = true
	probe.set(window("Firefox", "Docs"))
	tr.pollOnce()

	// The old row keeps a NULL end time (accepted data-quality trade-off),
	// but tracking moved on to the new session.
	current := tr.CurrentSession()
	require.NotNil(t, current)
	assert.Equal(t, "Firefox", current.AppName)
}

func TestNegativeDurationClamped(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}

	times := []time.Time{
		time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC), // clock went backwards
	}
	calls := 0
	tr := New(Config{
		Probe: probe, Store: store, Interval: time.Hour,
		Clock: func() time.Time {
			t := times[calls]
			if calls < len(times)-1 {
				calls++
			}
			return t
		},
	})

	tr.pollOnce()
	probe.set(window("Firefox", "Docs"))
	tr.pollOnce()

	sessions := store.snapshot()
	require.Len(t, sessions, 2)
	require.NotNil(t, sessions[0].end)
	assert.Equal(t, int64(0), sessions[0].duration)
}

func TestOnSessionCloseHook(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}

	var mu sync.Mutex
	var closed []string
	tr := New(Config{
		Probe: probe, Store: store, Interval: 5 * time.Millisecond,
		OnSessionClose: func(app string) {
			mu.Lock()
			defer mu.Unlock()
			closed = append(closed, app)
		},
	})

	tr.Start()
	require.Eventually(t, func() bool { return store.openCount() == 1 }, time.Second, time.Millisecond)
	tr.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Code"}, closed)
}

func TestCurrentActiveFallsBackToCache(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := New(Config{Probe: probe, Store: store, Interval: time.Hour})

	tr.pollOnce()
	probe.set(nil)

	active := tr.CurrentActive()
	require.NotNil(t, active)
	assert.Equal(t, "Code", active.AppName)
}

func TestCurrentActiveNilWhenNothingKnown(t *testing.T) {
	tr := New(Config{Probe: &fakeProbe{}, Store: &fakeStore{}})
	assert.Nil(t, tr.CurrentActive())
}

func TestRestartAfterStop(t *testing.T) {
	probe := &fakeProbe{}
	probe.set(window("Code", "main.go"))
	store := &fakeStore{}
	tr := newTestTracker(probe, store)

	tr.Start()
	require.Eventually(t, func() bool { return store.openCount() == 1 }, time.Second, time.Millisecond)
	tr.Stop()
	require.Equal(t, 0, store.openCount())

	tr.Start()
	require.Eventually(t, func() bool { return store.openCount() == 1 }, time.Second, time.Millisecond)
	tr.Stop()
	assert.Equal(t, 0, store.openCount())
	assert.Len(t, store.snapshot(), 2)
}
