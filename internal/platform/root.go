package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// Root markers, checked in this order in every directory.
const (
	MarkerDir    = ".hearth"
	MarkerConfig = "hearth.yaml"
)

// ErrRootNotFound is returned when no directory up to the filesystem root
// carries a marker.
var ErrRootNotFound = errors.New("hearth root not found")

// FindRoot walks up from startDir looking for a .hearth directory or a
// hearth.yaml file and returns the absolute path of the first match.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, MarkerDir) || hasFile(dir, MarkerConfig) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
