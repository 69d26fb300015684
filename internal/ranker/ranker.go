// Package ranker orders the immediate children of a backup root by their
// metadata change time, exposing the oldest and newest entries.
package ranker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	dirfs "github.com/avoicu/dirkeep/internal/fs"
)

// Entry is one immediate child of a directory, with the timestamp used for
// ranking. Files and subdirectories both count.
type Entry struct {
	Path       string
	ChangeTime time.Time
}

type Ranker struct {
	skip map[string]bool
}

// New builds a ranker. Names in skip are bookkeeping files living next to
// the backups (such as an advisory lock file) and are never treated as
// entries.
func New(skip ...string) *Ranker {
	r := &Ranker{}
	if len(skip) > 0 {
		r.skip = make(map[string]bool, len(skip))
		for _, name := range skip {
			r.skip[name] = true
		}
	}
	return r
}

// Oldest returns the entry with the smallest change time, or ok=false when
// the directory is empty.
func (r *Ranker) Oldest(dir string) (string, bool, error) {
	entries, err := r.list(dir)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if older(e, best) {
			best = e
		}
	}
	return best.Path, true, nil
}

// Newest returns the entry with the largest change time, or ok=false when
// the directory is empty.
func (r *Ranker) Newest(dir string) (string, bool, error) {
	entries, err := r.list(dir)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if newer(e, best) {
			best = e
		}
	}
	return best.Path, true, nil
}

// older reports whether a ranks before b. Equal timestamps fall back to the
// lexicographically smaller path, keeping eviction order deterministic.
func older(a, b Entry) bool {
	if a.ChangeTime.Equal(b.ChangeTime) {
		return a.Path < b.Path
	}
	return a.ChangeTime.Before(b.ChangeTime)
}

// newer reports whether a ranks after b, with the lexicographically larger
// path winning ties.
func newer(a, b Entry) bool {
	if a.ChangeTime.Equal(b.ChangeTime) {
		return a.Path > b.Path
	}
	return a.ChangeTime.After(b.ChangeTime)
}

func (r *Ranker) list(dir string) ([]Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		if r.skip[c.Name()] {
			continue
		}
		full := filepath.Join(dir, c.Name())
		info, err := os.Lstat(full)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", full, err)
		}
		entries = append(entries, Entry{
			Path:       full,
			ChangeTime: dirfs.ChangeTime(info),
		})
	}
	return entries, nil
}
