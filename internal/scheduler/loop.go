// Package scheduler provides timer schedulers for the refresh machine: a wall-clock
// one that hands fired callbacks to an owning event loop, and a virtual clock.
package scheduler

import (
	"sync"
	"time"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

// Loop arms wall-clock timers. Fired callbacks are passed to post so they run on
// the goroutine that owns the UI state (e.g. a bubbletea Program).
type Loop struct {
	mu   sync.RWMutex
	post func(func())
}

// NewLoop returns a Loop. A nil post runs callbacks on the timer goroutine.
func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

// SetPost replaces the dispatcher. Used when the loop is created before the
// program it posts into.
func (l *Loop) SetPost(post func(func())) {
	l.mu.Lock()
	l.post = post
	l.mu.Unlock()
}

// AfterFunc implements refresh.TimerScheduler.
func (l *Loop) AfterFunc(d time.Duration, f func()) refresh.Timer { //nolint:ireturn
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.mu.RLock()
		post := l.post
		l.mu.RUnlock()
		run := func() {
			if t.fire() {
				f()
			}
		}
		if post == nil {
			run()
			return
		}
		post(run)
	})
	return t
}

// loopTimer guards against a callback that was already handed to the loop when
// Stop was called.
type loopTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

func (t *loopTimer) fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.fired = true
	return true
}
