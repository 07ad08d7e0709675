package refresh

import (
	"fmt"
	"time"

	"github.com/ensigniasec/pullrefresh/internal/validate"
)

const (
	// DefaultRestoreTimeout bounds how long user interaction stays suppressed after a
	// programmatic scroll back to rest.
	DefaultRestoreTimeout = 300 * time.Millisecond
	// DefaultMomentumSettleDelay is one 60Hz frame.
	DefaultMomentumSettleDelay = 16 * time.Millisecond
)

// Config is fixed for the lifetime of a Machine.
type Config struct {
	Orientation Orientation `validate:"valid_enum"`
	// PullDistance is the explicit pull threshold. When nil the threshold is derived
	// from the indicator extent.
	PullDistance     *float64
	ReleaseToRefresh bool
	// ContentInset is the inset the integrator asked the surface for.
	ContentInset InsetSpec

	RestoreTimeout      time.Duration `validate:"gte=0"`
	MomentumSettleDelay time.Duration `validate:"gte=0"`
}

// DefaultConfig returns a vertical, release-to-refresh configuration.
func DefaultConfig() Config {
	return Config{
		Orientation:         Vertical,
		ReleaseToRefresh:    true,
		RestoreTimeout:      DefaultRestoreTimeout,
		MomentumSettleDelay: DefaultMomentumSettleDelay,
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WithPullDistance returns a copy of c with an explicit threshold.
func (c Config) WithPullDistance(d float64) Config {
	c.PullDistance = &d
	return c
}

func (c Config) configuredLeading() float64 {
	return c.ContentInset.Value(c.Orientation.Leading())
}
