// Package regform checks a storefront's account registration form.
//
// A Suite opens one browser session, runs the scenarios in order against the
// registration page and reports each outcome to a job tracker:
//
//	suite := regform.NewSuite(driver, reporter, regform.WithLogger(log))
//	run, err := suite.Setup(ctx)
//	if err != nil {
//		return err
//	}
//	defer suite.Teardown(ctx, run)
//
//	for _, sc := range regform.Scenarios() {
//		if err := suite.Check(ctx, run, sc); err != nil {
//			log.Error("scenario failed", zap.Error(err))
//		}
//	}
//
// Check is Execute followed by Report. Execute only drives the browser and
// returns an Outcome; Report records the outcome exactly once and, for a
// failure, closes the session.
package regform
