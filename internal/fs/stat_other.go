//go:build !linux && !darwin

package fs

import (
	"os"
	"time"
)

// provides fallbacks for platforms without syscall.Stat_t (notably Windows).
// Mtime stands in for ctime, and disk usage is the apparent size rounded
// up to 4 KiB blocks.

const fallbackBlockSize = 4096

func inodeOf(info os.FileInfo) uint64 {
	_ = info
	return 0
}

// ChangeTime returns the last metadata change time of the entry.
func ChangeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

// DiskUsageBytes returns an approximation of the entry's disk usage.
func DiskUsageBytes(info os.FileInfo) int64 {
	size := info.Size()
	blocks := (size + fallbackBlockSize - 1) / fallbackBlockSize
	if blocks == 0 && !info.IsDir() {
		return 0
	}
	if blocks == 0 {
		blocks = 1
	}
	return blocks * fallbackBlockSize
}
