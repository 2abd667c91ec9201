package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxNumberedCandidates = 9

// SafePath returns a path that does not exist yet. An existing path gets a
// numbered suffix (name_1.png .. name_9.png), then a short UUID suffix.
// The bool reports whether the returned path differs from the input.
func SafePath(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("path is empty")
	}
	exists, err := pathExists(path)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return path, false, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxNumberedCandidates; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return candidate, true, nil
		}
	}
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext), true, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
