// Package fsprobe decides whether fsnotify can be trusted for a directory.
// Some filesystems (network mounts, certain overlays) silently drop events,
// so the probe writes a marker file and checks that an event arrives.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const probeTimeout = 250 * time.Millisecond

// Result reports whether fsnotify is usable for a directory.
type Result struct {
	Supported bool
	Reason    string // set when Supported is false
}

// Probe writes and removes a hidden marker inside dir and reports whether
// fsnotify delivered an event for it in time.
func Probe(dir string) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{Reason: fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{Reason: "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{Reason: fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{Reason: fmt.Sprintf("cannot watch directory: %v", err)}
	}

	marker := filepath.Join(dir, ".dirkeep-probe")
	f, err := os.Create(marker)
	if err != nil {
		return Result{Reason: fmt.Sprintf("cannot create marker: %v", err)}
	}
	f.Close()
	defer os.Remove(marker)

	deadline := time.After(probeTimeout)
	for {
		select {
		case ev := <-w.Events:
			if filepath.Base(ev.Name) == ".dirkeep-probe" {
				return Result{Supported: true}
			}
		case err := <-w.Errors:
			return Result{Reason: fmt.Sprintf("watch error: %v", err)}
		case <-deadline:
			return Result{Reason: "no events received"}
		}
	}
}
