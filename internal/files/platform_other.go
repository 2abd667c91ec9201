//go:build !windows

package files

import (
	"errors"
	"fmt"
	"os"
)

// moveFile renames oldPath to newPath. Without replace the move fails if
// newPath exists.
func moveFile(oldPath, newPath string, replace bool) error {
	if !replace {
		_, err := os.Lstat(newPath)
		if err == nil {
			return fmt.Errorf("%s: %w", newPath, os.ErrExist)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return os.Rename(oldPath, newPath)
}

func isReparsePoint(string) (bool, error) {
	return false, nil
}
