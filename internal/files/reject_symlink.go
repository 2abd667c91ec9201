package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RejectSymlinkPath returns an error if the path or any of its ancestor
// directories is a symlink or a reparse point.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return rejectSymlinkComponents(abs)
}

// ResolveParent resolves symlinks in the directory part of path and leaves
// the final element untouched. Directories that do not exist yet keep their
// names below the nearest existing ancestor, which is resolved.
func ResolveParent(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	dir, name := filepath.Split(abs)
	resolved, err := ResolveExisting(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolved, name), nil
}

// ResolveExisting resolves symlinks in the longest existing prefix of path,
// including the final element when it exists, and appends the missing
// elements unchanged. A dangling symlink counts as missing.
func ResolveExisting(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	current := abs
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to resolve %s: %w", current, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return abs, nil
		}
		missing = append([]string{filepath.Base(current)}, missing...)
		current = parent
	}
}

func rejectSymlinkComponents(path string) error {
	volume := filepath.VolumeName(path)
	rest := strings.TrimLeft(path[len(volume):], string(os.PathSeparator))

	var current string
	if volume != "" {
		current = volume + string(os.PathSeparator)
	} else if filepath.IsAbs(path) {
		current = string(os.PathSeparator)
	}

	for _, part := range strings.Split(rest, string(os.PathSeparator)) {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write through symlink: %s (symlink at %s)", path, current)
		}
		isReparse, err := isReparsePoint(current)
		if err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		}
		if isReparse {
			return fmt.Errorf("refusing to write through symlink: %s (reparse point at %s)", path, current)
		}
	}
	return nil
}
