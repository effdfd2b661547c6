package regform

import (
	"context"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/thesyncim/regform/pkg/browser"
	"github.com/thesyncim/regform/pkg/jobstatus"
)

// DefaultTargetURL is the storefront's registration page.
const DefaultTargetURL = "https://ecommerce-playground.lambdatest.io/index.php?route=account/register"

// Config holds suite timing and the page under test.
type Config struct {
	TargetURL       string
	SetupTimeout    time.Duration // Open the session and load the page
	TeardownTimeout time.Duration // Close the session
	ReportTimeout   time.Duration // One status update
	ElementTimeout  time.Duration // Per element wait; zero uses the helpers' defaults
	SubmitWait      time.Duration // Wait for the page to be replaced after submit
}

// DefaultConfig returns the budgets the suite runs with against the storefront.
func DefaultConfig() Config {
	return Config{
		TargetURL:       DefaultTargetURL,
		SetupTimeout:    50 * time.Second,
		TeardownTimeout: 40 * time.Second,
		ReportTimeout:   30 * time.Second,
		SubmitWait:      5 * time.Second,
	}
}

// Outcome is the terminal state of one scenario. Cause is nil iff the
// scenario passed.
type Outcome struct {
	Scenario string
	Status   jobstatus.Status
	Cause    error
	Duration time.Duration
}

// Passed reports whether the scenario passed.
func (o Outcome) Passed() bool {
	return o.Status == jobstatus.StatusPassed
}

// Run is the state shared by the scenarios of one suite run: the browser
// session opened by Setup. It is passed explicitly to every step.
type Run struct {
	session  browser.Session
	form     *Form
	closed   bool
	outcomes []Outcome
}

// SessionID is the provider's id for the run's browser session.
func (r *Run) SessionID() string {
	if r == nil || r.session == nil {
		return ""
	}
	return r.session.ID()
}

// Closed reports whether the session has been torn down.
func (r *Run) Closed() bool {
	return r == nil || r.closed
}

// Outcomes lists the reported outcomes, in order.
func (r *Run) Outcomes() []Outcome {
	return append([]Outcome(nil), r.outcomes...)
}

// Suite runs scenarios on one browser session and reports their outcomes.
type Suite struct {
	cfg      Config
	driver   browser.Driver
	reporter jobstatus.Reporter
	log      *zap.Logger
}

// Option configures a Suite.
type Option func(*Suite)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Suite) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Suite) {
		s.log = log
	}
}

// NewSuite creates a suite that opens sessions with driver and records
// outcomes with reporter.
func NewSuite(driver browser.Driver, reporter jobstatus.Reporter, opts ...Option) *Suite {
	s := &Suite{
		cfg:      DefaultConfig(),
		driver:   driver,
		reporter: reporter,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup opens a session and loads the registration page within the setup
// budget. The session is closed again if the page cannot be loaded.
func (s *Suite) Setup(ctx context.Context) (*Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SetupTimeout)
	defer cancel()

	sess, err := s.driver.Open(ctx)
	if err != nil {
		return nil, ErrSession.Wrap(err)
	}
	if sess.ID() == "" {
		_ = sess.Close()
		return nil, ErrSession.New("browser returned a session without an id")
	}

	log := s.log.With(zap.String("session", sess.ID()))
	if err := sess.Navigate(ctx, s.cfg.TargetURL); err != nil {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("failed to close session after setup error", zap.Error(cerr))
		}
		return nil, ErrSession.Wrap(err)
	}

	log.Info("suite ready", zap.String("url", s.cfg.TargetURL))
	return &Run{
		session: sess,
		form:    NewForm(sess, s.cfg.ElementTimeout, s.cfg.SubmitWait, log),
	}, nil
}

// Execute runs sc on the run's session within the scenario's budget and
// returns its outcome. It has no side effects beyond the browser.
func (s *Suite) Execute(ctx context.Context, run *Run, sc Scenario) Outcome {
	start := time.Now()
	outcome := Outcome{Scenario: sc.Name, Status: jobstatus.StatusFailed}

	if run.Closed() {
		outcome.Cause = ErrSession.New("no open session for %q", sc.Name)
		return outcome
	}

	timeout := sc.Timeout
	if timeout <= 0 {
		timeout = ScenarioTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.log.Info("scenario started", zap.String("scenario", sc.Name))
	err := sc.Steps(ctx, run.form)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Cause = err
		return outcome
	}
	outcome.Status = jobstatus.StatusPassed
	return outcome
}

// Report records o with the job tracker, exactly once. For a failed outcome
// it then runs the failure handler, which closes the session, and returns
// the cause. A reporting error is returned as well.
func (s *Suite) Report(ctx context.Context, run *Run, o Outcome) error {
	log := s.log.With(
		zap.String("scenario", o.Scenario),
		zap.String("status", string(o.Status)),
		zap.Duration("duration", o.Duration))

	reportErr := s.updateStatus(ctx, run, o.Status)
	if reportErr != nil {
		log.Error("failed to report status", zap.Error(reportErr))
	}
	if run != nil {
		run.outcomes = append(run.outcomes, o)
	}

	if o.Passed() {
		log.Info("scenario passed")
		return reportErr
	}

	s.handleFailure(log, run, o.Cause)
	return errs.Combine(o.Cause, reportErr)
}

// Check executes sc and reports its outcome.
func (s *Suite) Check(ctx context.Context, run *Run, sc Scenario) error {
	return s.Report(ctx, run, s.Execute(ctx, run, sc))
}

// Teardown closes the session within the teardown budget. It is a no-op when
// the failure handler already closed it.
func (s *Suite) Teardown(ctx context.Context, run *Run) error {
	if run.Closed() {
		return nil
	}
	run.closed = true

	ctx, cancel := context.WithTimeout(ctx, s.cfg.TeardownTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run.session.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return ErrSession.Wrap(err)
		}
		s.log.Info("suite finished", zap.String("session", run.SessionID()))
		return nil
	case <-ctx.Done():
		return ErrSession.New("teardown of %s: %v", run.SessionID(), ctx.Err())
	}
}

// RunAll sets up a session, checks every scenario in order and tears the
// session down. Outcomes are returned even when some scenarios fail.
func (s *Suite) RunAll(ctx context.Context, scenarios []Scenario) ([]Outcome, error) {
	run, err := s.Setup(ctx)
	if err != nil {
		return nil, err
	}

	var group errs.Group
	for _, sc := range scenarios {
		group.Add(s.Check(ctx, run, sc))
	}
	group.Add(s.Teardown(ctx, run))
	return run.Outcomes(), group.Err()
}

func (s *Suite) updateStatus(ctx context.Context, run *Run, status jobstatus.Status) error {
	id := run.SessionID()
	if id == "" {
		return ErrSession.New("no session id, status %s not reported", status)
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReportTimeout)
	defer cancel()
	return s.reporter.UpdateSession(ctx, id, status)
}

// handleFailure logs the cause and closes the session. A close error is
// logged and dropped so that the scenario's cause is what the caller sees.
func (s *Suite) handleFailure(log *zap.Logger, run *Run, cause error) {
	log.Error("scenario failed", zap.Error(cause))
	if run.Closed() || run.session == nil {
		return
	}
	run.closed = true
	if err := run.session.Close(); err != nil {
		log.Warn("discarding session close error", zap.Error(err))
	}
}
