package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDir is the sandbox directory name under the system temp directory.
const DevDir = "hearth-dev"

// IsDevRun reports whether the process was built by `go run` or `go test`,
// judging by the location and name of the executable.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath returns the path to use for user data. With sandbox set,
// paths outside the temp directory are re-rooted under DevDir so that dev
// runs never touch real data; paths already inside it pass through.
func ResolveDataPath(userPath string, sandbox bool) string {
	if !sandbox {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) {
		rel, err := filepath.Rel(os.TempDir(), clean)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), DevDir, name)
}
