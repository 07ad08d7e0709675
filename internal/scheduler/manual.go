package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

// Manual is a virtual clock. Timers only fire from Advance, in deadline order and,
// for equal deadlines, in the order they were armed.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

// NewManual returns a clock at zero.
func NewManual() *Manual { return &Manual{} }

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending counts armed timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// AfterFunc implements refresh.TimerScheduler.
func (m *Manual) AfterFunc(d time.Duration, f func()) refresh.Timer { //nolint:ireturn
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, at: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due.
// Timers armed by fired callbacks fire too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.f()
		fired++
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return fired
}

func (m *Manual) popDue(target time.Duration) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at != m.timers[j].at {
			return m.timers[i].at < m.timers[j].at
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	next := m.timers[0]
	if next.at > target {
		return nil
	}
	m.timers = m.timers[1:]
	m.now = next.at
	return next
}

func (m *Manual) remove(t *manualTimer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.timers {
		if x == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	owner *Manual
	at    time.Duration
	seq   uint64
	f     func()
}

func (t *manualTimer) Stop() bool { return t.owner.remove(t) }
