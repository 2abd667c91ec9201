package library

import (
	"path/filepath"
	"strings"

	"github.com/oukeidos/deskgif/internal/apperrors"
)

// Canonicalize returns the absolute, cleaned, symlink-resolved form of raw.
// A path that cannot be resolved (usually a deleted file) keeps its absolute
// cleaned form, so its record can still be looked up and removed.
func Canonicalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.InvalidInput("path is empty")
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", apperrors.New(apperrors.KindInvalidInput, "cannot resolve path", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Missing targets and unreadable ancestors still leave a usable key.
		return abs, nil
	}
	return resolved, nil
}

// SamePath reports whether a and b canonicalize to the same location.
func SamePath(a, b string) bool {
	ca, err := Canonicalize(a)
	if err != nil {
		return false
	}
	cb, err := Canonicalize(b)
	if err != nil {
		return false
	}
	return ca == cb
}
