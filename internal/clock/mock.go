package clock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Mock is a deterministic Clock for tests. Time only moves when Advance is
// called; pending AfterFunc callbacks and Sleep waiters with deadlines inside
// the advanced window fire during Advance, in deadline order, on the calling
// goroutine.
type Mock struct {
	mu       sync.Mutex
	now      time.Time
	timers   []*mockTimer
	sleepers []*sleeper
}

type mockTimer struct {
	clk      *Mock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

type sleeper struct {
	deadline time.Time
	done     chan struct{}
}

// NewMock returns a Mock frozen at start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{clk: m, deadline: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	m.mu.Lock()
	s := &sleeper{deadline: m.now.Add(d), done: make(chan struct{})}
	m.sleepers = append(m.sleepers, s)
	m.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		m.removeSleeper(s)
		return ctx.Err()
	}
}

// Advance moves the clock forward by d and runs everything that became due.
// Callbacks run synchronously, so callers must not hold locks that the
// callbacks also take.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	var due []*mockTimer
	var remaining []*mockTimer
	for _, t := range m.timers {
		if !t.stopped && !t.deadline.After(now) {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	m.timers = remaining

	var woken []*sleeper
	var stillAsleep []*sleeper
	for _, s := range m.sleepers {
		if !s.deadline.After(now) {
			woken = append(woken, s)
		} else {
			stillAsleep = append(stillAsleep, s)
		}
	}
	m.sleepers = stillAsleep
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		t.markFired()
		t.fn()
	}
	for _, s := range woken {
		close(s.done)
	}
}

// SleeperCount reports how many Sleep calls are currently blocked. Tests use
// it to wait for a goroutine to reach its suspension point.
func (m *Mock) SleeperCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sleepers)
}

func (m *Mock) removeSleeper(s *sleeper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.sleepers {
		if cur == s {
			m.sleepers = append(m.sleepers[:i], m.sleepers[i+1:]...)
			return
		}
	}
}

func (t *mockTimer) markFired() {
	t.clk.mu.Lock()
	t.fired = true
	t.clk.mu.Unlock()
}

func (t *mockTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
