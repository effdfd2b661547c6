package browser

import "github.com/zeebo/errs"

var (
	// Error is the class of backend failures (session, transport, protocol).
	Error = errs.Class("browser")
	// ErrNotFound is returned by Session.Find when no element matches.
	ErrNotFound = errs.Class("element not found")
	// ErrStale is returned by Element methods once the element's document is gone.
	ErrStale = errs.Class("stale element")
	// ErrTimeout is returned when an element did not become visible in time.
	ErrTimeout = errs.Class("element wait timeout")
)
