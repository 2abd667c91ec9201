package files

import (
	"fmt"

	"github.com/google/uuid"
)

// QuarantinePath returns the name a damaged file is moved to:
// "<path>.corrupt-<uuid>".
func QuarantinePath(path string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("%s.corrupt-%s", path, id.String())
}

// Quarantine moves path aside so a fresh file can be written in its place.
// It returns the new location of the old file.
func Quarantine(path string) (string, error) {
	if err := RejectSymlinkPath(path); err != nil {
		return "", err
	}
	dest := QuarantinePath(path)
	if err := moveFile(path, dest, false); err != nil {
		return "", fmt.Errorf("failed to move %s aside: %w", path, err)
	}
	return dest, nil
}
