//go:build e2e

// Package e2e runs the registration scenarios in a real browser.
//
// These tests are isolated from the standard test suite via build tags.
// The fixture test requires a Chrome browser (auto-downloaded by Rod if not
// present); the grid test requires LT_USERNAME and LT_ACCESS_KEY and is
// skipped without them.
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Running all tests except E2E:
//
//	go test ./...
//
// E2E tests use:
//   - Rod for the local browser (Chrome DevTools Protocol)
//   - Selenium for the hosted WebDriver grid
//   - regform-fixture server as a local copy of the registration page
//
// Test isolation:
// Each test starts its own fixture server on a random port and opens its
// own browser session. The scenarios inside one test share that session and
// run in order.
package e2e
