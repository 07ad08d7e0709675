package tui

import (
	"errors"

	"github.com/ensigniasec/pullrefresh/internal/source"
)

// Message types for Bubble Tea update loop.

// frameMsg advances the simulated scroll physics by one frame.
type frameMsg struct{}

// runMsg carries a timer callback onto the update loop.
type runMsg struct{ f func() }

// listedMsg carries a finished listing. done is set when the listing was a
// refresh and must be called once the rows are in place.
type listedMsg struct {
	Listing source.Listing
	Err     error
	CycleID string
	done    func()
}

// ErrUnsupportedOrientation is returned for horizontal configurations; the
// terminal surface only scrolls vertically.
var ErrUnsupportedOrientation = errors.New("demo supports vertical orientation only")
