package browser

import (
	"context"
	"errors"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	// DefaultTimeout bounds id and name lookups.
	DefaultTimeout = 8 * time.Second
	// DefaultXPathTimeout bounds XPath lookups.
	DefaultXPathTimeout = 10 * time.Second
	// PollInterval is the delay between lookups while waiting.
	PollInterval = 250 * time.Millisecond
)

// ElementByID waits for the element with the given id to exist and be visible.
// A zero timeout selects DefaultTimeout.
func ElementByID(ctx context.Context, s Session, id string, timeout time.Duration) (Element, error) {
	return WaitVisible(ctx, s, ID(id), orDefault(timeout, DefaultTimeout))
}

// ElementByName waits for the first element with the given name attribute to
// exist and be visible. A zero timeout selects DefaultTimeout.
func ElementByName(ctx context.Context, s Session, name string, timeout time.Duration) (Element, error) {
	return WaitVisible(ctx, s, Name(name), orDefault(timeout, DefaultTimeout))
}

// ElementByXPath waits for the first element matching expr to exist and be
// visible. A zero timeout selects DefaultXPathTimeout.
func ElementByXPath(ctx context.Context, s Session, expr string, timeout time.Duration) (Element, error) {
	return WaitVisible(ctx, s, XPath(expr), orDefault(timeout, DefaultXPathTimeout))
}

// WaitVisible polls s until an element matching loc exists and is displayed,
// then returns it. Missing, hidden and stale elements keep the poll going;
// any other error from the backend ends it.
func WaitVisible(ctx context.Context, s Session, loc Locator, timeout time.Duration) (Element, error) {
	var (
		found  Element
		reason = "not located"
	)

	err := wait.PollUntilContextTimeout(ctx, PollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		el, err := s.Find(ctx, loc)
		switch {
		case ErrNotFound.Has(err):
			reason = "not located"
			return false, nil
		case err != nil:
			return false, err
		}

		visible, err := el.Displayed(ctx)
		switch {
		case ErrStale.Has(err):
			reason = "stale"
			return false, nil
		case err != nil:
			return false, err
		case !visible:
			reason = "located but not visible"
			return false, nil
		}

		found = el
		return true, nil
	})
	if err == nil {
		return found, nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, Error.Wrap(ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) || wait.Interrupted(err) {
		return nil, ErrTimeout.New("%s %s after %v", loc, reason, timeout)
	}
	return nil, Error.Wrap(err)
}

// WaitStale polls el until its document has been replaced, which is how a
// full page submit shows up to a WebDriver client. It reports whether that
// happened within timeout.
func WaitStale(ctx context.Context, el Element, timeout time.Duration) bool {
	err := wait.PollUntilContextTimeout(ctx, PollInterval, timeout, false, func(ctx context.Context) (bool, error) {
		_, err := el.Displayed(ctx)
		return ErrStale.Has(err) || ErrNotFound.Has(err), nil
	})
	return err == nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
