// Registration form suite runner.
//
// Runs the registration scenarios on one browser session and reports each
// outcome to the grid's job tracker. Credentials come from LT_USERNAME and
// LT_ACCESS_KEY.
//
// Usage:
//
//	go run ./cmd/regform run                    # hosted grid
//	go run ./cmd/regform run --backend local    # local headless Chrome
//
// The exit status is 1 when any scenario fails.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
