package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thesyncim/regform/pkg/browser"
	"github.com/thesyncim/regform/pkg/jobstatus"
	"github.com/thesyncim/regform/pkg/regform"
)

const (
	backendGrid  = "grid"
	backendLocal = "local"
)

type runOptions struct {
	backend  string
	verbose  bool
	apiURL   string
	remote   browser.RemoteConfig
	local    browser.LocalConfig
	suiteCfg regform.Config
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "regform",
		Short:        "Browser checks for the storefront's registration form",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := runOptions{
		backend:  backendGrid,
		apiURL:   jobstatus.DefaultBaseURL,
		remote:   browser.DefaultRemoteConfig(),
		local:    browser.DefaultLocalConfig(),
		suiteCfg: regform.DefaultConfig(),
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registration scenarios and report their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.backend, "backend", opts.backend, "browser backend: grid or local")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "development logging")
	f.StringVar(&opts.suiteCfg.TargetURL, "target-url", opts.suiteCfg.TargetURL, "registration page under test")
	f.DurationVar(&opts.suiteCfg.ElementTimeout, "element-timeout", 0, "per element wait (0 uses 8s for ids and names, 10s for XPath)")
	f.StringVar(&opts.remote.Host, "hub-host", opts.remote.Host, "WebDriver grid host")
	f.StringVar(&opts.remote.BrowserName, "browser", opts.remote.BrowserName, "grid browser name")
	f.StringVar(&opts.remote.BrowserVersion, "browser-version", opts.remote.BrowserVersion, "grid browser version")
	f.StringVar(&opts.remote.Platform, "platform", opts.remote.Platform, "grid platform")
	f.StringVar(&opts.remote.Project, "project", opts.remote.Project, "grid project tag")
	f.StringVar(&opts.remote.Build, "build", opts.remote.Build, "grid build tag")
	f.StringVar(&opts.apiURL, "api-url", opts.apiURL, "job status API base URL")
	f.BoolVar(&opts.local.Headless, "headless", opts.local.Headless, "run the local browser headless")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, out io.Writer, opts runOptions) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	driver, reporter, err := backend(opts, log)
	if err != nil {
		return err
	}

	suite := regform.NewSuite(driver, reporter,
		regform.WithConfig(opts.suiteCfg),
		regform.WithLogger(log))

	outcomes, err := suite.RunAll(ctx, regform.Scenarios())
	printSummary(out, outcomes)
	return err
}

// backend picks the browser driver and the matching status reporter.
func backend(opts runOptions, log *zap.Logger) (browser.Driver, jobstatus.Reporter, error) {
	switch opts.backend {
	case backendGrid:
		creds := regform.CredentialsFromEnv()
		if creds.IsPlaceholder() {
			log.Warn("LT_USERNAME or LT_ACCESS_KEY not set, using placeholder credentials")
		}
		remote := opts.remote
		remote.Username, remote.AccessKey = creds.Username, creds.AccessKey

		driver := browser.NewRemoteDriver(remote, browser.WithRemoteLogger(log))
		reporter := jobstatus.NewClient(creds.Username, creds.AccessKey,
			jobstatus.WithBaseURL(opts.apiURL),
			jobstatus.WithLogger(log))
		return driver, reporter, nil
	case backendLocal:
		return browser.NewLocalDriver(opts.local, browser.WithLocalLogger(log)), jobstatus.NewLog(log), nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want %s or %s)", opts.backend, backendGrid, backendLocal)
	}
}

func printSummary(out io.Writer, outcomes []regform.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTATUS\tDURATION\tCAUSE")
	for _, o := range outcomes {
		cause := ""
		if o.Cause != nil {
			cause = o.Cause.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", o.Scenario, o.Status, o.Duration.Round(time.Millisecond), cause)
	}
	tw.Flush()
}
