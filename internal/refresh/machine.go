package refresh

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Machine is the pull-to-refresh interaction state machine. The host scroll view
// feeds it events; it answers with surface commands and refresh-start calls.
//
// Handlers may be called from any goroutine and are applied in call order. Side
// effects run after the internal lock is released, so callbacks are free to call
// back into the machine (including invoking done synchronously).
type Machine struct {
	cfg     Config
	surface ScrollableSurface
	sched   TimerScheduler
	onStart RefreshStartFunc
	observe func(Snapshot)
	log     logrus.FieldLogger

	mu         sync.Mutex
	closed     bool
	state      InteractionState
	metrics    ScrollMetrics
	hasMetrics bool
	adjustment EdgeInsets
	extent     *float64
	last       Snapshot
	cycle      uint64

	restoreTimer Timer
	restoreGen   uint64
	settleTimer  Timer
}

// Option customises a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver registers a callback invoked with every new snapshot.
func WithObserver(f func(Snapshot)) Option {
	return func(m *Machine) { m.observe = f }
}

// New builds a machine at rest. The host is expected to apply ExposedInset to the
// surface initially; afterwards the machine pushes inset changes itself.
func New(cfg Config, surface ScrollableSurface, sched TimerScheduler, onStart RefreshStartFunc, opts ...Option) (*Machine, error) {
	switch {
	case surface == nil:
		return nil, ErrNilSurface
	case sched == nil:
		return nil, ErrNilScheduler
	case onStart == nil:
		return nil, ErrNilRefreshStart
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		cfg:     cfg,
		surface: surface,
		sched:   sched,
		onStart: onStart,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.last = m.snapshotLocked()
	return m, nil
}

// Config returns the configuration the machine was built with.
func (m *Machine) Config() Config { return m.cfg }

// State returns a copy of the current interaction state.
func (m *Machine) State() InteractionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the last published presentation.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Indicator returns the props for the indicator renderer.
func (m *Machine) Indicator() IndicatorProps { return m.Snapshot().Indicator }

// ExposedInset returns the inset the surface should currently carry.
func (m *Machine) ExposedInset() InsetSpec { return m.Snapshot().ExposedInset }

// Metrics returns the last scroll metrics, if any arrived yet.
func (m *Machine) Metrics() (ScrollMetrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics, m.hasMetrics
}

// OnResponderGrant records that a touch went down on the surface.
func (m *Machine) OnResponderGrant() {
	m.dispatch("grant", func(_ *effects) {
		m.state.Tracking = true
	})
}

// OnResponderRelease ends tracking and, in release-to-refresh mode, starts a
// refresh when the pull had reached its threshold.
func (m *Machine) OnResponderRelease() {
	m.dispatch("release", func(fx *effects) {
		wasBusy := m.state.busy()
		m.state.Tracking = false
		if m.cfg.ReleaseToRefresh && m.state.PullProgress >= 1 && !wasBusy {
			m.beginRefreshLocked(fx)
		}
	})
}

// OnScroll stores the metrics and recomputes pull progress. Progress keeps
// updating during a refresh so the indicator follows the drag.
func (m *Machine) OnScroll(metrics ScrollMetrics) {
	m.dispatch("scroll", func(fx *effects) {
		m.metrics = metrics
		m.hasMetrics = true
		m.adjustment = InsetAdjustment(metrics.ContentInset, m.last.ExposedInset)

		threshold, ok := ResolveThreshold(m.cfg, m.extent)
		if !ok {
			return
		}
		progress := PullProgress(metrics, m.cfg.Orientation, threshold)
		m.state.PullProgress = progress
		if m.cfg.ReleaseToRefresh {
			return
		}
		if progress == 1 && m.state.Tracking && !m.state.busy() {
			m.beginRefreshLocked(fx)
		}
	})
}

// OnIndicatorLayout records the far edge of the indicator along the pull axis.
func (m *Machine) OnIndicatorLayout(extent float64) {
	m.dispatch("layout", func(_ *effects) {
		m.extent = &extent
	})
}

// OnMomentumScrollEnd restores the scroll position once the view came to rest
// after a finished refresh. The check is deferred by MomentumSettleDelay so a
// grant that stopped the momentum is seen first.
func (m *Machine) OnMomentumScrollEnd() {
	if m.cfg.MomentumSettleDelay <= 0 {
		m.dispatch("momentum_end", m.settleLocked)
		return
	}
	m.dispatch("momentum_end", func(_ *effects) {
		if m.settleTimer != nil {
			m.settleTimer.Stop()
		}
		m.settleTimer = m.sched.AfterFunc(m.cfg.MomentumSettleDelay, func() {
			m.dispatch("momentum_settled", m.settleLocked)
		})
	})
}

// Close cancels pending timers. Every later event is ignored.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.stopRestoreTimerLocked()
	if m.settleTimer != nil {
		m.settleTimer.Stop()
		m.settleTimer = nil
	}
}

func (m *Machine) settleLocked(fx *effects) {
	m.settleTimer = nil
	if m.state.WaitingToRest && !m.state.Tracking {
		m.restoreLocked(fx)
	}
}

func (m *Machine) beginRefreshLocked(fx *effects) {
	m.state.Refreshing = true
	m.state.ShouldIncreaseContentInset = true
	m.cycle++
	done := m.doneFor(m.cycle)
	m.log.WithField("cycle", m.cycle).Debug("refresh started")
	fx.add(func() { m.onStart(done) })
}

// doneFor builds the end-of-refresh callback for one cycle. Only the first call
// has any effect.
func (m *Machine) doneFor(cycle uint64) func() {
	var once sync.Once
	return func() {
		once.Do(func() { m.endRefresh(cycle) })
	}
}

func (m *Machine) endRefresh(cycle uint64) {
	m.dispatch("refresh_end", func(fx *effects) {
		// A cycle ends at most once; anything else is a stale or repeated signal.
		if cycle != m.cycle || !m.state.Refreshing {
			return
		}
		// Let the view bounce back by itself while it is still held or pulled.
		waiting := m.state.Tracking || m.overscrolledLocked()
		m.state.Refreshing = false
		m.state.WaitingToRest = waiting
		if waiting {
			m.state.ShouldIncreaseContentInset = true
			return
		}
		m.restoreLocked(fx)
	})
}

func (m *Machine) overscrolledLocked() bool {
	if !m.hasMetrics {
		return false
	}
	return IsOverscrolled(m.metrics.ContentOffset, m.metrics.ContentInset, m.cfg.Orientation)
}

func (m *Machine) dispatch(event string, apply func(*effects)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.log.WithField("event", event).Debug("event after close ignored")
		return
	}
	var fx effects
	apply(&fx)
	out := m.publishLocked(event)
	m.mu.Unlock()

	out.run()
	fx.run()
}

// publishLocked compares the new snapshot with the last one and queues the
// presentation updates that changed.
func (m *Machine) publishLocked(event string) effects {
	snap := m.snapshotLocked()
	if snap.Equal(m.last) {
		return nil
	}
	prev := m.last
	m.last = snap

	m.log.WithFields(logrus.Fields{
		"event":    event,
		"phase":    snap.State.Phase().String(),
		"progress": snap.State.PullProgress,
		"tracking": snap.State.Tracking,
	}).Debug("refresh state changed")

	var out effects
	if !snap.ExposedInset.Equal(prev.ExposedInset) {
		inset := snap.ExposedInset
		out.add(func() { m.surface.SetContentInset(inset) })
	}
	if m.observe != nil {
		observe := m.observe
		out.add(func() { observe(snap) })
	}
	return out
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		State:              m.state,
		Indicator:          indicatorFor(m.state),
		ExposedInset:       ExposeInset(m.cfg, m.extent, m.adjustment, m.state.ShouldIncreaseContentInset),
		InteractionEnabled: !m.state.ReturningToTop,
	}
}

// effects are side effects collected under the lock and run after it.
type effects []func()

func (fx *effects) add(f func()) { *fx = append(*fx, f) }

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}
