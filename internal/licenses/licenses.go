// Package licenses carries the third-party notices shown by the about
// screens of both binaries.
package licenses

import (
	_ "embed"
	"errors"
	"strings"
)

//go:embed embedded/THIRD_PARTY_NOTICES.md
var noticesText string

var errEmpty = errors.New("embedded THIRD_PARTY_NOTICES is empty")

// Notices returns the notices text, or an error if the build embedded an
// empty file.
func Notices() (string, error) {
	if strings.TrimSpace(noticesText) == "" {
		return "", errEmpty
	}
	return noticesText, nil
}
