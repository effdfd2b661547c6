// Package browser drives a single browser session for the registration suite.
//
// Two backends implement Driver:
//   - RemoteDriver opens a W3C WebDriver session on a hosted grid (Selenium)
//   - LocalDriver launches a headless Chrome over the DevTools protocol (Rod)
//
// Both hand out a Session, which the element helpers in this package poll:
//
//	el, err := browser.ElementByXPath(ctx, sess, `//input[@value="Continue"]`, 0)
//	if err != nil {
//		return err
//	}
//	return el.Click(ctx)
//
// Lookups on a Session never wait. Waiting is the job of WaitVisible and the
// ElementBy* helpers, which poll until the element exists and is displayed.
package browser
