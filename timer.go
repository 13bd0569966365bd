package nexusauth

import (
	"sync"
	"time"

	"github.com/nexuslabs/nexusauth/internal/clock"
)

// sessionTimer schedules the one-shot expiry callback. At most one timer
// is pending per instance: start replaces, cancel stops. The callback
// fires at most once per start and never after a matching cancel, even
// when cancel races an already-dequeued callback.
type sessionTimer struct {
	mu  sync.Mutex
	clk clock.Clock
	t   clock.Timer
	gen uint64
}

func newSessionTimer(clk clock.Clock) *sessionTimer {
	return &sessionTimer{clk: clk}
}

func (st *sessionTimer) start(d time.Duration, fn func()) {
	st.mu.Lock()
	if st.t != nil {
		st.t.Stop()
	}
	st.gen++
	gen := st.gen
	st.t = st.clk.AfterFunc(d, func() {
		st.mu.Lock()
		if st.gen != gen {
			st.mu.Unlock()
			return
		}
		st.t = nil
		st.mu.Unlock()
		fn()
	})
	st.mu.Unlock()
}

func (st *sessionTimer) cancel() {
	st.mu.Lock()
	st.gen++
	if st.t != nil {
		st.t.Stop()
		st.t = nil
	}
	st.mu.Unlock()
}

// pending reports whether a callback is scheduled and not yet fired.
func (st *sessionTimer) pending() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.t != nil
}
