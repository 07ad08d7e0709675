package refresh

import "github.com/sirupsen/logrus"

// restoreLocked ends the post-refresh lifecycle. When part of the exposed inset
// was reserved for the indicator and the view has not scrolled past it, the
// content is scrolled back so releasing the reservation does not make it jump.
func (m *Machine) restoreLocked(fx *effects) {
	dest, ok := m.restoreDestinationLocked()

	m.state.Refreshing = false
	m.state.WaitingToRest = false
	m.state.ReturningToTop = ok
	m.state.ShouldIncreaseContentInset = false

	m.stopRestoreTimerLocked()
	if !ok {
		return
	}
	m.log.WithFields(logrus.Fields{"x": dest.X, "y": dest.Y}).Debug("returning to rest position")
	fx.add(func() { m.surface.ScrollTo(dest) })
	m.armRestoreTimerLocked()
}

func (m *Machine) restoreDestinationLocked() (Point, bool) {
	if !m.hasMetrics {
		return Point{}, false
	}
	o := m.cfg.Orientation
	lead := o.Leading()

	reserved := m.last.ExposedInset.Value(lead) - m.cfg.ContentInset.Value(lead)
	native := m.metrics.ContentInset.Get(lead)
	offset := o.Axis(m.metrics.ContentOffset)
	scrolled := native + offset
	if reserved <= 0 || reserved <= scrolled {
		return Point{}, false
	}
	return o.WithAxis(m.metrics.ContentOffset, min(offset, -native)+reserved), true
}

// armRestoreTimerLocked schedules the fallback that re-enables interaction when
// the end of the programmatic scroll is never observed.
func (m *Machine) armRestoreTimerLocked() {
	m.restoreGen++
	gen := m.restoreGen
	m.restoreTimer = m.sched.AfterFunc(m.cfg.RestoreTimeout, func() {
		m.dispatch("restore_timeout", func(_ *effects) {
			if gen != m.restoreGen {
				return
			}
			m.restoreTimer = nil
			m.state.ReturningToTop = false
		})
	})
}

func (m *Machine) stopRestoreTimerLocked() {
	if m.restoreTimer != nil {
		m.restoreTimer.Stop()
		m.restoreTimer = nil
	}
	m.restoreGen++
}
