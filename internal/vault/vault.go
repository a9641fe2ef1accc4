// Package vault stores database snapshots for tubetracker.
package vault

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// checkName rejects names that could escape the vault root.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("snapshot name must not be empty")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid snapshot name: %q", name)
	}
	if path.Clean(name) != name {
		return fmt.Errorf("invalid snapshot name: %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("invalid snapshot name: %q", name)
		}
	}
	return nil
}
