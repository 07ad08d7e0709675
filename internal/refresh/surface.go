package refresh

import "time"

// ScrollableSurface receives imperative commands from the machine.
type ScrollableSurface interface {
	ScrollTo(offset Point)
	SetContentInset(inset InsetSpec)
}

// TimerScheduler arms single-shot timers.
type TimerScheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to an armed callback.
type Timer interface {
	// Stop prevents the callback from running and reports whether it was pending.
	Stop() bool
}

// RefreshStartFunc begins caller-owned refresh work. done must be called once the
// work finishes, from any goroutine.
type RefreshStartFunc func(done func())
