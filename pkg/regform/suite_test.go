package regform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/thesyncim/regform/pkg/browser"
	"github.com/thesyncim/regform/pkg/browser/testutil"
	"github.com/thesyncim/regform/pkg/jobstatus"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) UpdateSession(ctx context.Context, sessionID string, status jobstatus.Status) error {
	args := m.Called(ctx, sessionID, status)
	return args.Error(0)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TargetURL = "http://storefront.test/index.php?route=account/register"
	cfg.ElementTimeout = 600 * time.Millisecond
	cfg.SubmitWait = time.Second
	return cfg
}

func newTestSuite(t *testing.T, sess *testutil.FakeSession, reporter jobstatus.Reporter, opts ...Option) *Suite {
	t.Helper()
	opts = append([]Option{WithConfig(testConfig()), WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewSuite(&testutil.FakeDriver{Session: sess}, reporter, opts...)
}

func TestSuite_AllScenariosPass(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	newStorefront(sess)

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", jobstatus.StatusPassed).Return(nil).Times(3)

	suite := newTestSuite(t, sess, reporter)
	outcomes, err := suite.RunAll(context.Background(), Scenarios())
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	for i, sc := range Scenarios() {
		assert.Equal(t, sc.Name, outcomes[i].Scenario)
		assert.True(t, outcomes[i].Passed(), "%s: %v", sc.Name, outcomes[i].Cause)
		assert.NoError(t, outcomes[i].Cause)
	}

	reporter.AssertExpectations(t)
	assert.Equal(t, []string{"http://storefront.test/index.php?route=account/register"}, sess.Navigated())
	assert.Equal(t, 1, sess.Closed())
}

func TestSuite_FailureReportedBeforeReturn(t *testing.T) {
	// A page without any of the form's elements.
	sess := testutil.NewFakeSession("sess-1")

	var reported []jobstatus.Status
	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", mock.Anything).
		Run(func(args mock.Arguments) {
			reported = append(reported, args.Get(2).(jobstatus.Status))
		}).
		Return(nil)

	suite := newTestSuite(t, sess, reporter)
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	err = suite.Check(context.Background(), run, EmptySubmission())
	require.Error(t, err)
	assert.True(t, browser.ErrTimeout.Has(err), "got %v", err)

	// The status was recorded by the time Check returned.
	assert.Equal(t, []jobstatus.Status{jobstatus.StatusFailed}, reported)
	reporter.AssertNumberOfCalls(t, "UpdateSession", 1)

	// The failure handler closed the session; teardown does not close it twice.
	assert.True(t, run.Closed())
	assert.Equal(t, 1, sess.Closed())
	require.NoError(t, suite.Teardown(context.Background(), run))
	assert.Equal(t, 1, sess.Closed())
}

func TestSuite_ClosedRunFailsFast(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", jobstatus.StatusFailed).Return(nil).Twice()

	suite := newTestSuite(t, sess, reporter)
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	require.Error(t, suite.Check(context.Background(), run, EmptySubmission()))

	start := time.Now()
	err = suite.Check(context.Background(), run, InvalidEmail())
	require.Error(t, err)
	assert.True(t, ErrSession.Has(err))
	assert.Less(t, time.Since(start), testConfig().ElementTimeout)

	outcomes := run.Outcomes()
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[1].Passed())
	reporter.AssertExpectations(t)
}

func TestSuite_CloseErrorDiscarded(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	sess.CloseErr = errors.New("session already gone")

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", jobstatus.StatusFailed).Return(nil)

	core, logs := observer.New(zapcore.WarnLevel)
	suite := newTestSuite(t, sess, reporter, WithLogger(zap.New(core)))
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	err = suite.Check(context.Background(), run, AccountCreated())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "session already gone")
	assert.True(t, browser.ErrTimeout.Has(err))

	discarded := logs.FilterMessage("discarding session close error")
	assert.Equal(t, 1, discarded.Len())
}

func TestSuite_ReportErrorCombinedWithCause(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", jobstatus.StatusFailed).
		Return(jobstatus.Error.New("401 Unauthorized"))

	suite := newTestSuite(t, sess, reporter)
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	err = suite.Check(context.Background(), run, EmptySubmission())
	require.Error(t, err)
	assert.True(t, browser.ErrTimeout.Has(err))
	assert.True(t, jobstatus.Error.Has(err))
	reporter.AssertNumberOfCalls(t, "UpdateSession", 1)
}

func TestSuite_ReportErrorOnPass(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	newStorefront(sess)

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", jobstatus.StatusPassed).
		Return(jobstatus.Error.New("503 Service Unavailable"))

	suite := newTestSuite(t, sess, reporter)
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	err = suite.Check(context.Background(), run, EmptySubmission())
	require.Error(t, err)
	assert.True(t, jobstatus.Error.Has(err))
	reporter.AssertNumberOfCalls(t, "UpdateSession", 1)
	assert.False(t, run.Closed())
}

func TestSuite_AssertionMismatch(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	sf := newStorefront(sess)
	sf.messages[MsgAccountCreated] = "Register Account"

	reporter := &mockReporter{}
	reporter.On("UpdateSession", mock.Anything, "sess-1", mock.Anything).Return(nil)

	suite := newTestSuite(t, sess, reporter)
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	o := suite.Execute(context.Background(), run, AccountCreated())
	require.False(t, o.Passed())
	assert.True(t, ErrAssertion.Has(o.Cause), "got %v", o.Cause)
	assert.Contains(t, o.Cause.Error(), `got "Register Account", want "Your Account Has Been Created!"`)

	// Execute alone has no reporting side effect.
	reporter.AssertNotCalled(t, "UpdateSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuite_InvalidEmailRejectsExtraErrors(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	sf := newStorefront(sess)
	sf.extraErrors = []string{MsgTelephone}

	suite := newTestSuite(t, sess, &mockReporter{})
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	o := suite.Execute(context.Background(), run, InvalidEmail())
	require.False(t, o.Passed())
	assert.True(t, ErrAssertion.Has(o.Cause), "got %v", o.Cause)
	assert.Contains(t, o.Cause.Error(), MsgTelephone)
}

func TestSuite_ScenarioTimeout(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	suite := newTestSuite(t, sess, &mockReporter{})
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	sc := Scenario{
		Name:    "slow",
		Timeout: 50 * time.Millisecond,
		Steps: func(ctx context.Context, f *Form) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	o := suite.Execute(context.Background(), run, sc)
	assert.False(t, o.Passed())
	assert.ErrorIs(t, o.Cause, context.DeadlineExceeded)
}

func TestSuite_SetupOpenError(t *testing.T) {
	driver := &testutil.FakeDriver{Err: browser.Error.New("grid unavailable")}
	suite := NewSuite(driver, &mockReporter{}, WithConfig(testConfig()))

	_, err := suite.Setup(context.Background())
	require.Error(t, err)
	assert.True(t, ErrSession.Has(err))
	assert.Contains(t, err.Error(), "grid unavailable")
}

func TestSuite_SetupNavigateErrorClosesSession(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	sess.NavigateErr = browser.Error.New("net::ERR_NAME_NOT_RESOLVED")

	suite := newTestSuite(t, sess, &mockReporter{})
	_, err := suite.Setup(context.Background())
	require.Error(t, err)
	assert.True(t, ErrSession.Has(err))
	assert.Equal(t, 1, sess.Closed())
}

func TestSuite_SetupRequiresSessionID(t *testing.T) {
	sess := testutil.NewFakeSession("")

	suite := newTestSuite(t, sess, &mockReporter{})
	_, err := suite.Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without an id")
	assert.Equal(t, 1, sess.Closed())
}

func TestSuite_TeardownError(t *testing.T) {
	sess := testutil.NewFakeSession("sess-1")
	sess.CloseErr = errors.New("quit failed")

	suite := newTestSuite(t, sess, &mockReporter{})
	run, err := suite.Setup(context.Background())
	require.NoError(t, err)

	err = suite.Teardown(context.Background(), run)
	require.Error(t, err)
	assert.True(t, ErrSession.Has(err))
	assert.True(t, run.Closed())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultTargetURL, cfg.TargetURL)
	assert.Equal(t, 50*time.Second, cfg.SetupTimeout)
	assert.Equal(t, 40*time.Second, cfg.TeardownTimeout)
	assert.Zero(t, cfg.ElementTimeout)
}

func TestScenarios_Order(t *testing.T) {
	scs := Scenarios()
	require.Len(t, scs, 3)
	assert.Equal(t, "submit without all fields being filled", scs[0].Name)
	assert.Equal(t, "invalid email address submission", scs[1].Name)
	assert.Equal(t, "account created success message", scs[2].Name)
	for _, sc := range scs {
		assert.Equal(t, 100*time.Second, sc.Timeout)
	}
}
