package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/avoicu/dirkeep/internal/backup"
)

// detect enqueues a backup trigger if the input directory changed since the
// last trigger. The change signal is the maximum modification time over the
// directory itself and its immediate children; deep writes bump parent
// directory mtimes rarely, so watch mode leans on fsnotify or frequent polls
// for anything nested.
func (w *Watcher) detect() {
	w.mu.RLock()
	dir := w.dir
	last := w.lastSeen
	w.mu.RUnlock()

	mod, err := latestChange(dir)
	if err != nil {
		w.log.Error("watcher: scanning input failed", "dir", dir, "error", err)
		return
	}

	if !mod.After(last) {
		return
	}

	if !w.isSettled() {
		w.log.Debug("input still changing, holding trigger", "dir", dir)
		return
	}

	w.mu.Lock()
	w.lastSeen = mod
	w.mu.Unlock()

	w.log.Info("input changed, requesting backup", "dir", dir)
	w.mb.Put(backup.Trigger{Reason: "watch", At: mod})
}

// isSettled waits the stability window and reports whether the directory's
// change signal stayed constant across it.
func (w *Watcher) isSettled() bool {
	w.mu.RLock()
	dir := w.dir
	stability := w.stability
	w.mu.RUnlock()

	if stability <= 0 {
		return true
	}

	before, err := latestChange(dir)
	if err != nil {
		return false
	}

	time.Sleep(stability)

	after, err := latestChange(dir)
	if err != nil {
		return false
	}

	return !after.After(before)
}

func latestChange(dir string) (time.Time, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return time.Time{}, err
	}
	latest := info.ModTime()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return time.Time{}, err
	}
	for _, e := range entries {
		ei, err := os.Lstat(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		if ei.ModTime().After(latest) {
			latest = ei.ModTime()
		}
	}
	return latest, nil
}
