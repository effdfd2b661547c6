package regform

import "github.com/zeebo/errs"

var (
	// ErrAssertion is returned when the page shows different text than expected.
	ErrAssertion = errs.Class("assertion")
	// ErrSession is returned when the suite has no usable browser session.
	ErrSession = errs.Class("session")
)
