package backup

import (
	"path/filepath"
	"time"
)

// NameLayout is the timestamp layout for new backup folder names. It sorts
// lexicographically and is unique to the second.
const NameLayout = "2006-01-02 15h 04m 05s"

// TargetPath builds the output path for a backup taken at the given time.
func TargetPath(backupRoot string, at time.Time) string {
	return filepath.Join(backupRoot, at.Format(NameLayout))
}
