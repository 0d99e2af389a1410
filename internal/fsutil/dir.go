package fsutil

import (
	"errors"
	"os"
)

// MakeDirectory creates path and any missing parents. An existing directory
// counts as success.
func MakeDirectory(path string) error {
	if path == "" {
		return errors.New("empty directory path")
	}
	return os.MkdirAll(path, 0o755)
}
