package refresh

import "errors"

// Construction errors. Event handling itself never fails.
var (
	ErrNilSurface         = errors.New("refresh: scroll surface is required")
	ErrNilScheduler       = errors.New("refresh: timer scheduler is required")
	ErrNilRefreshStart    = errors.New("refresh: onRefreshStart callback is required")
	ErrInvalidConfig      = errors.New("refresh: invalid config")
	ErrUnknownOrientation = errors.New("refresh: unknown orientation")
)
