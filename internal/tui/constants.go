package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// frameInterval drives rubber-band relaxation and programmatic scroll animation.
	frameInterval = 33 * time.Millisecond
	// relaxFactor is the share of the remaining distance covered per frame.
	relaxFactor = 0.35
	// snapDistance ends an animation once the offset is this close to its target.
	snapDistance = 0.05

	// minRefreshDuration keeps the active indicator on screen long enough to see.
	minRefreshDuration = 700 * time.Millisecond
	refreshTimeout     = 30 * time.Second

	// headerLines is the title plus status line above the scroll surface.
	headerLines = 2
	footerLines = 1

	defaultWidth  = 80
	defaultHeight = 24
	progressWidth = 24
	sizeColumn    = 9
)
