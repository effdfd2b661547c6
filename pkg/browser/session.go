package browser

import (
	"context"
	"fmt"
)

// Strategy selects how a Locator matches DOM elements.
type Strategy string

const (
	ByID    Strategy = "id"
	ByName  Strategy = "name"
	ByXPath Strategy = "xpath"
)

// Locator identifies a DOM element by id, name attribute or XPath expression.
type Locator struct {
	By    Strategy
	Value string
}

// ID matches the element whose id attribute equals id.
func ID(id string) Locator { return Locator{By: ByID, Value: id} }

// Name matches elements whose name attribute equals name.
func Name(name string) Locator { return Locator{By: ByName, Value: name} }

// XPath matches elements selected by the XPath expression.
func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// Driver opens browser sessions.
type Driver interface {
	Open(ctx context.Context) (Session, error)
}

// Session is one browser instance for the lifetime of a suite.
//
// Find and FindAll do not wait. Find returns an ErrNotFound error when
// nothing matches; FindAll returns an empty slice.
type Session interface {
	// ID is the provider's session identifier, used for status reporting.
	ID() string
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
	Close() error
}

// Element is a handle to a DOM element inside a Session.
//
// Methods on an element whose document has been replaced return an
// ErrStale error.
type Element interface {
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Text(ctx context.Context) (string, error)
	Displayed(ctx context.Context) (bool, error)
	Selected(ctx context.Context) (bool, error)
}
