package browser

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"github.com/tebeka/selenium"
	"go.uber.org/zap"
)

// RemoteConfig describes a session request against a hosted WebDriver grid.
type RemoteConfig struct {
	Host      string // Grid host, e.g. "hub.lambdatest.com"
	Username  string // Grid account, embedded in the hub URL
	AccessKey string // Grid access key, embedded in the hub URL

	BrowserName     string
	BrowserVersion  string
	Platform        string
	Project         string // Project tag shown on the provider dashboard
	Build           string // Build tag grouping the sessions of one run
	Name            string // Session name shown on the provider dashboard
	SeleniumVersion string
	W3C             bool
}

// DefaultRemoteConfig returns the grid configuration the registration suite
// runs with. Build gets a fresh identifier per call.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Host:            "hub.lambdatest.com",
		Username:        "Username",
		AccessKey:       "Access Key",
		BrowserName:     "Chrome",
		BrowserVersion:  "105.0",
		Platform:        "Windows 10",
		Project:         "Unit Testing",
		Build:           "regform-" + uuid.NewString(),
		Name:            "Registration form",
		SeleniumVersion: "4.0.0",
		W3C:             true,
	}
}

// HubURL is the WebDriver endpoint with the credentials as URL userinfo.
func (c RemoteConfig) HubURL() string {
	u := url.URL{
		Scheme: "https",
		User:   url.UserPassword(c.Username, c.AccessKey),
		Host:   c.Host,
		Path:   "/wd/hub",
	}
	return u.String()
}

// Capabilities is the session request body sent to the grid.
func (c RemoteConfig) Capabilities() selenium.Capabilities {
	return selenium.Capabilities{
		"browserName":    c.BrowserName,
		"browserVersion": c.BrowserVersion,
		"LT:Options": map[string]interface{}{
			"username":         c.Username,
			"accessKey":        c.AccessKey,
			"platformName":     c.Platform,
			"project":          c.Project,
			"build":            c.Build,
			"name":             c.Name,
			"selenium_version": c.SeleniumVersion,
			"w3c":              c.W3C,
		},
	}
}

// RemoteDriver opens sessions on a WebDriver grid.
type RemoteDriver struct {
	cfg       RemoteConfig
	log       *zap.Logger
	newRemote func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error)
}

// RemoteOption configures a RemoteDriver.
type RemoteOption func(*RemoteDriver)

// WithRemoteLogger sets the logger used for session lifecycle events.
func WithRemoteLogger(log *zap.Logger) RemoteOption {
	return func(d *RemoteDriver) {
		d.log = log
	}
}

// NewRemoteDriver creates a driver for the grid described by cfg.
func NewRemoteDriver(cfg RemoteConfig, opts ...RemoteOption) *RemoteDriver {
	d := &RemoteDriver{
		cfg:       cfg,
		log:       zap.NewNop(),
		newRemote: selenium.NewRemote,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open requests a new session from the grid. The selenium client has no
// context support, so ctx is only checked before the request is made.
func (d *RemoteDriver) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, Error.Wrap(err)
	}

	d.log.Info("requesting grid session",
		zap.String("host", d.cfg.Host),
		zap.String("browser", d.cfg.BrowserName),
		zap.String("version", d.cfg.BrowserVersion),
		zap.String("build", d.cfg.Build))

	wd, err := d.newRemote(d.cfg.Capabilities(), d.cfg.HubURL())
	if err != nil {
		// The hub URL carries credentials; keep it out of the message.
		return nil, Error.New("failed to open session on %s: %v", d.cfg.Host, err)
	}

	sess := &remoteSession{wd: wd}
	d.log.Info("grid session opened", zap.String("session", sess.ID()))
	return sess, nil
}

type remoteSession struct {
	wd selenium.WebDriver
}

func (s *remoteSession) ID() string {
	return s.wd.SessionID()
}

func (s *remoteSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}
	if err := s.wd.Get(url); err != nil {
		return Error.New("failed to navigate to %s: %v", url, err)
	}
	return nil
}

func (s *remoteSession) Find(ctx context.Context, loc Locator) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, Error.Wrap(err)
	}
	el, err := s.wd.FindElement(seleniumBy(loc.By), loc.Value)
	if err != nil {
		return nil, remoteError(err, loc.String())
	}
	return &remoteElement{el: el}, nil
}

func (s *remoteSession) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, Error.Wrap(err)
	}
	els, err := s.wd.FindElements(seleniumBy(loc.By), loc.Value)
	if err != nil {
		if ErrNotFound.Has(remoteError(err, loc.String())) {
			return nil, nil
		}
		return nil, remoteError(err, loc.String())
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &remoteElement{el: el})
	}
	return out, nil
}

func (s *remoteSession) Close() error {
	return Error.Wrap(s.wd.Quit())
}

type remoteElement struct {
	el selenium.WebElement
}

func (e *remoteElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}
	return remoteError(e.el.Click(), "click")
}

func (e *remoteElement) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}
	return remoteError(e.el.Clear(), "clear")
}

func (e *remoteElement) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}
	return remoteError(e.el.SendKeys(text), "send keys")
}

func (e *remoteElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Error.Wrap(err)
	}
	text, err := e.el.Text()
	return text, remoteError(err, "text")
}

func (e *remoteElement) Displayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, Error.Wrap(err)
	}
	ok, err := e.el.IsDisplayed()
	return ok, remoteError(err, "displayed")
}

func (e *remoteElement) Selected(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, Error.Wrap(err)
	}
	ok, err := e.el.IsSelected()
	return ok, remoteError(err, "selected")
}

func seleniumBy(by Strategy) string {
	switch by {
	case ByID:
		return selenium.ByID
	case ByName:
		return selenium.ByName
	default:
		return selenium.ByXPATH
	}
}

// remoteError maps W3C error codes onto this package's error classes.
func remoteError(err error, what string) error {
	if err == nil {
		return nil
	}
	var se *selenium.Error
	if errors.As(err, &se) {
		switch se.Err {
		case "no such element":
			return ErrNotFound.New("%s", what)
		case "stale element reference":
			return ErrStale.New("%s", what)
		}
	}
	return Error.New("%s: %v", what, err)
}
