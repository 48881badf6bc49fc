package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDataPath(t *testing.T) {
	t.Parallel()

	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, DevDir)

	tests := []struct {
		name     string
		userPath string
		sandbox  bool
		expected string
	}{
		{"Normal Mode - Current Dir", ".", false, "."},
		{"Normal Mode - Empty", "", false, "."},
		{"Normal Mode - Specific Path", "/some/path", false, "/some/path"},
		{"Sandbox - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Sandbox - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Sandbox - Relative Name", "my-data", true, filepath.Join(devBase, "my-data")},
		{"Sandbox - Clean Name", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Sandbox - Temp Dir Passes Through", filepath.Join(tempRoot, "my-test"), true, filepath.Join(tempRoot, "my-test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDataPath(tt.userPath, tt.sandbox)
			if got != tt.expected {
				t.Errorf("ResolveDataPath(%q, %v) = %q; want %q", tt.userPath, tt.sandbox, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// Test binaries end in .test, so this must hold under go test.
	if !IsDevRun() {
		t.Errorf("IsDevRun() = false; want true inside go test")
	}
}
