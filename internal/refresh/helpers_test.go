//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package refresh

import (
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fakeClock is a virtual-time TimerScheduler.
type fakeClock struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	c   *fakeClock
	at  time.Duration
	seq int
	f   func()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer { //nolint:ireturn
	c.seq++
	t := &fakeTimer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	for i, x := range t.c.timers {
		if x == t {
			t.c.timers = append(t.c.timers[:i], t.c.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *fakeClock) advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].at != c.timers[j].at {
				return c.timers[i].at < c.timers[j].at
			}
			return c.timers[i].seq < c.timers[j].seq
		})
		if len(c.timers) == 0 || c.timers[0].at > target {
			break
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		c.now = t.at
		t.f()
	}
	c.now = target
}

// recordingSurface captures surface commands.
type recordingSurface struct {
	scrolls []Point
	insets  []InsetSpec
}

func (s *recordingSurface) ScrollTo(p Point)            { s.scrolls = append(s.scrolls, p) }
func (s *recordingSurface) SetContentInset(i InsetSpec) { s.insets = append(s.insets, i) }
func (s *recordingSurface) lastInset() (InsetSpec, bool) {
	if len(s.insets) == 0 {
		return InsetSpec{}, false
	}
	return s.insets[len(s.insets)-1], true
}

// harness wires a machine to fakes and remembers refresh starts.
type harness struct {
	t       *testing.T
	m       *Machine
	surface *recordingSurface
	clock   *fakeClock
	starts  int
	done    func()
	snaps   []Snapshot
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{t: t, surface: &recordingSurface{}, clock: &fakeClock{}}
	m, err := New(cfg, h.surface, h.clock, func(done func()) {
		h.starts++
		h.done = done
	}, WithLogger(quietLogger()), WithObserver(func(s Snapshot) { h.snaps = append(h.snaps, s) }))
	require.NoError(t, err)
	h.m = m
	return h
}

// scrollY delivers a vertical scroll event with the given top inset.
func (h *harness) scrollY(y, top float64) {
	h.m.OnScroll(ScrollMetrics{ContentOffset: Point{Y: y}, ContentInset: EdgeInsets{Top: top}})
}

// requireExclusive checks that at most one lifecycle flag is set.
func requireExclusive(t *testing.T, s InteractionState) {
	t.Helper()
	n := 0
	for _, b := range []bool{s.Refreshing, s.WaitingToRest, s.ReturningToTop} {
		if b {
			n++
		}
	}
	require.LessOrEqual(t, n, 1, "lifecycle flags overlap: %+v", s)
	require.GreaterOrEqual(t, s.PullProgress, 0.0)
	require.LessOrEqual(t, s.PullProgress, 1.0)
}

func f64(v float64) *float64 { return &v }
