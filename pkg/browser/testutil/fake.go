// fake.go provides an in-memory browser session for unit tests.
// It lets tests script what a page contains and how it reacts to clicks
// without launching a browser.
package testutil

import (
	"context"
	"sync"

	"github.com/thesyncim/regform/pkg/browser"
)

// FakeDriver hands out a prepared session.
type FakeDriver struct {
	Session *FakeSession
	Err     error // Returned by Open instead of the session
	Opened  int
}

// Open returns d.Session, or d.Err when set.
func (d *FakeDriver) Open(ctx context.Context) (browser.Session, error) {
	d.Opened++
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Session, nil
}

// FakeSession is a browser.Session whose document is a map from locator to
// elements. Reload replaces the document, turning every element handed out
// so far stale.
type FakeSession struct {
	mu sync.Mutex

	id        string
	gen       int
	elements  map[browser.Locator][]*FakeElement
	navigated []string
	closed    int

	FindErr     error // Returned by every Find and FindAll when set
	NavigateErr error // Returned by Navigate when set
	CloseErr    error // Returned by Close when set
	OnNavigate  func(url string)
}

// NewFakeSession creates an empty session with the given id.
func NewFakeSession(id string) *FakeSession {
	return &FakeSession{
		id:       id,
		elements: make(map[browser.Locator][]*FakeElement),
	}
}

// Put adds elements matching loc to the current document.
func (s *FakeSession) Put(loc browser.Locator, els ...*FakeElement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range els {
		el.session = s
		el.gen = s.gen
	}
	s.elements[loc] = append(s.elements[loc], els...)
}

// Reload discards the current document.
func (s *FakeSession) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.elements = make(map[browser.Locator][]*FakeElement)
}

// Navigated lists the URLs passed to Navigate, in order.
func (s *FakeSession) Navigated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigated...)
}

// Closed reports how many times Close was called.
func (s *FakeSession) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *FakeSession) ID() string { return s.id }

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	if s.NavigateErr != nil {
		s.mu.Unlock()
		return s.NavigateErr
	}
	s.navigated = append(s.navigated, url)
	hook := s.OnNavigate
	s.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	return nil
}

func (s *FakeSession) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if s.closed > 0 {
		return nil, browser.Error.New("session %s closed", s.id)
	}
	els := s.elements[loc]
	if len(els) == 0 {
		return nil, browser.ErrNotFound.New("%s", loc)
	}
	return els[0], nil
}

func (s *FakeSession) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if s.closed > 0 {
		return nil, browser.Error.New("session %s closed", s.id)
	}
	out := make([]browser.Element, 0, len(s.elements[loc]))
	for _, el := range s.elements[loc] {
		out = append(out, el)
	}
	return out, nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return s.CloseErr
}

// FakeElement is a scriptable browser.Element.
type FakeElement struct {
	session *FakeSession
	gen     int

	Label    string // Returned by Text
	Value    string // Input value, changed by Clear and SendKeys
	Hidden   bool
	Checked  bool
	ClickErr error
	OnClick  func()

	// HiddenPolls makes the first n Displayed calls report false.
	HiddenPolls int
	Clicks      int
}

// lock holds the owning session's lock. Elements never passed to Put have
// no session and are never stale.
func (e *FakeElement) lock() func() {
	if e.session == nil {
		return func() {}
	}
	e.session.mu.Lock()
	return e.session.mu.Unlock
}

func (e *FakeElement) stale() error {
	if e.session == nil {
		return nil
	}
	if e.gen != e.session.gen {
		return browser.ErrStale.New("%q", e.Label)
	}
	return nil
}

func (e *FakeElement) Click(ctx context.Context) error {
	unlock := e.lock()
	if err := e.stale(); err != nil {
		unlock()
		return err
	}
	if e.ClickErr != nil {
		unlock()
		return e.ClickErr
	}
	e.Clicks++
	hook := e.OnClick
	unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (e *FakeElement) Clear(ctx context.Context) error {
	defer e.lock()()
	if err := e.stale(); err != nil {
		return err
	}
	e.Value = ""
	return nil
}

func (e *FakeElement) SendKeys(ctx context.Context, text string) error {
	defer e.lock()()
	if err := e.stale(); err != nil {
		return err
	}
	e.Value += text
	return nil
}

func (e *FakeElement) Text(ctx context.Context) (string, error) {
	defer e.lock()()
	if err := e.stale(); err != nil {
		return "", err
	}
	return e.Label, nil
}

func (e *FakeElement) Displayed(ctx context.Context) (bool, error) {
	defer e.lock()()
	if err := e.stale(); err != nil {
		return false, err
	}
	if e.HiddenPolls > 0 {
		e.HiddenPolls--
		return false, nil
	}
	return !e.Hidden, nil
}

func (e *FakeElement) Selected(ctx context.Context) (bool, error) {
	defer e.lock()()
	if err := e.stale(); err != nil {
		return false, err
	}
	return e.Checked, nil
}
