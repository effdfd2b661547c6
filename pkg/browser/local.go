package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// LocalConfig configures Chrome launch options.
type LocalConfig struct {
	Headless bool          // Run in headless mode (default: true)
	Timeout  time.Duration // Navigation timeout (default: 30s)
}

// DefaultLocalConfig returns sensible defaults for local runs and CI.
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

// LocalDriver launches Chrome on this machine and drives it over the
// DevTools protocol.
type LocalDriver struct {
	cfg LocalConfig
	log *zap.Logger
}

// LocalOption configures a LocalDriver.
type LocalOption func(*LocalDriver)

// WithLocalLogger sets the logger used for browser lifecycle events.
func WithLocalLogger(log *zap.Logger) LocalOption {
	return func(d *LocalDriver) {
		d.log = log
	}
}

// NewLocalDriver creates a driver that launches Chrome with cfg.
func NewLocalDriver(cfg LocalConfig, opts ...LocalOption) *LocalDriver {
	d := &LocalDriver{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open launches a browser with one blank page. The browser is configured with:
//   - No sandbox (for container compatibility)
//   - No GPU
func (d *LocalDriver) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, Error.Wrap(err)
	}

	// The launcher is not bound to ctx: cancelling the setup context must
	// not take the browser down with it.
	l := launcher.New().
		Headless(d.cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")

	u, err := l.Launch()
	if err != nil {
		return nil, Error.New("failed to launch Chrome: %v", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, Error.New("failed to connect to Chrome: %v", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, Error.New("failed to open page: %v", err)
	}

	sess := &localSession{
		launcher: l,
		browser:  b,
		page:     page,
		timeout:  d.cfg.Timeout,
	}
	d.log.Info("local browser opened", zap.String("session", sess.ID()), zap.Bool("headless", d.cfg.Headless))
	return sess, nil
}

type localSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
}

func (s *localSession) ID() string {
	return string(s.page.TargetID)
}

func (s *localSession) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx).Timeout(s.timeout)
	defer page.CancelTimeout()

	if err := page.Navigate(url); err != nil {
		return Error.New("failed to navigate to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return Error.New("failed to load %s: %v", url, err)
	}
	return nil
}

func (s *localSession) Find(ctx context.Context, loc Locator) (Element, error) {
	page := s.page.Context(ctx)

	var (
		has bool
		el  *rod.Element
		err error
	)
	if loc.By == ByXPath {
		has, el, err = page.HasX(loc.Value)
	} else {
		has, el, err = page.Has(cssFor(loc))
	}
	if err != nil {
		return nil, localError(err, loc.String())
	}
	if !has {
		return nil, ErrNotFound.New("%s", loc)
	}
	return &localElement{el: el}, nil
}

func (s *localSession) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	page := s.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	if loc.By == ByXPath {
		els, err = page.ElementsX(loc.Value)
	} else {
		els, err = page.Elements(cssFor(loc))
	}
	if err != nil {
		return nil, localError(err, loc.String())
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &localElement{el: el})
	}
	return out, nil
}

// Close shuts the browser down and removes its profile directory.
func (s *localSession) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	return Error.Wrap(err)
}

type localElement struct {
	el *rod.Element
}

func (e *localElement) Click(ctx context.Context) error {
	return localError(e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1), "click")
}

func (e *localElement) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return localError(err, "clear")
	}
	return localError(el.Input(""), "clear")
}

func (e *localElement) SendKeys(ctx context.Context, text string) error {
	return localError(e.el.Context(ctx).Input(text), "send keys")
}

func (e *localElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return text, localError(err, "text")
}

func (e *localElement) Displayed(ctx context.Context) (bool, error) {
	ok, err := e.el.Context(ctx).Visible()
	return ok, localError(err, "displayed")
}

func (e *localElement) Selected(ctx context.Context) (bool, error) {
	v, err := e.el.Context(ctx).Property("checked")
	if err != nil {
		return false, localError(err, "selected")
	}
	return v.Bool(), nil
}

var staleHints = []string{
	"cannot find context with specified id",
	"could not find node with given id",
	"could not find object with given id",
	"invalid remote object id",
	"node is detached",
}

// cssFor turns an id or name locator into an attribute selector. Quoted
// attribute values accept ids that are not valid CSS identifiers.
func cssFor(loc Locator) string {
	attr := "id"
	if loc.By == ByName {
		attr = "name"
	}
	return fmt.Sprintf("[%s=%s]", attr, strconv.Quote(loc.Value))
}

// localError maps DevTools failures onto this package's error classes.
// A node whose execution context was destroyed by a navigation is stale.
func localError(err error, what string) error {
	if err == nil {
		return nil
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return ErrNotFound.New("%s", what)
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range staleHints {
		if strings.Contains(msg, hint) {
			return ErrStale.New("%s", what)
		}
	}
	return Error.New("%s: %v", what, err)
}
