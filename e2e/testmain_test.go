//go:build e2e

package e2e

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
)

func TestMain(m *testing.M) {
	code := m.Run()

	cleanupOrphanedBrowsers()

	os.Exit(code)
}

// cleanupOrphanedBrowsers kills Chromium processes launched from Rod's
// browser cache that a panicking test left behind. Sessions that end
// normally are closed by the suite's teardown or its failure handler.
// A system Chrome the developer has open is not touched.
func cleanupOrphanedBrowsers() {
	switch runtime.GOOS {
	case "darwin", "linux":
		// pkill returns non-zero if no processes matched
		_ = exec.Command("pkill", "-f", "rod/browser/chromium").Run()
	case "windows":
		_ = exec.Command("taskkill", "/F", "/IM", "chromium.exe").Run()
	}
}
