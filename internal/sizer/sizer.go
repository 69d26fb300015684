// Package sizer measures the disk usage of directory subtrees in kilobytes,
// following the block-based semantics of du -sk.
package sizer

import (
	"fmt"
	"io/fs"
	"path/filepath"

	dirfs "github.com/avoicu/dirkeep/internal/fs"
)

type Probe struct {
	skip map[string]bool
}

// New builds a probe. Names in skip are bookkeeping files living directly
// under the measured directory (such as an advisory lock file) and are left
// out of the total. The exclusion only applies at the top level so that
// regular files inside a backup are always counted.
func New(skip ...string) *Probe {
	p := &Probe{}
	if len(skip) > 0 {
		p.skip = make(map[string]bool, len(skip))
		for _, name := range skip {
			p.skip[name] = true
		}
	}
	return p
}

// SizeKB returns the total disk usage in kilobytes of the subtree rooted at
// path, including the directory entries themselves. Unreadable or missing
// paths produce an error; they are never reported as zero.
func (p *Probe) SizeKB(path string) (int64, error) {
	var total int64
	root := filepath.Clean(path)

	err := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p.skip != nil && p.skip[d.Name()] && filepath.Dir(entry) == root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += dirfs.DiskUsageBytes(info)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measuring %s: %w", path, err)
	}

	// Round up to whole kilobytes, like du -sk.
	return (total + 1023) / 1024, nil
}
