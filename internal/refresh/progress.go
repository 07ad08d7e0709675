package refresh

import "math"

// PullProgress normalises how far content has been dragged past its rest boundary
// against threshold. A non-positive threshold is always satisfied.
func PullProgress(m ScrollMetrics, o Orientation, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	return clamp01(PullDistance(m, o) / threshold)
}

// PullDistance is positive while the leading edge of the content sits past its
// rest position.
func PullDistance(m ScrollMetrics, o Orientation) float64 {
	return -(m.ContentInset.Get(o.Leading()) + o.Axis(m.ContentOffset))
}

// ResolveThreshold picks the explicit pull distance when configured, otherwise
// twice the indicator extent beyond the configured leading inset. ok is false when
// neither is known yet.
func ResolveThreshold(cfg Config, extent *float64) (threshold float64, ok bool) {
	if cfg.PullDistance != nil {
		return *cfg.PullDistance, true
	}
	if extent == nil {
		return 0, false
	}
	return 2 * (*extent - cfg.configuredLeading()), true
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
