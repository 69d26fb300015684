// Package watcher observes the input directory and requests a backup run
// whenever its contents change.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avoicu/dirkeep/internal/backup"
	"github.com/avoicu/dirkeep/internal/config"
	"github.com/avoicu/dirkeep/internal/fsprobe"
	"github.com/avoicu/dirkeep/internal/logging"
	"github.com/avoicu/dirkeep/internal/mailbox"
)

// Watcher tracks change activity in the input directory and puts a trigger
// into the mailbox once the directory has settled.
type Watcher struct {
	mu sync.RWMutex

	dir       string
	mode      string
	interval  time.Duration
	debounce  time.Duration
	stability time.Duration

	lastSeen time.Time

	log logging.Logger
	mb  *mailbox.Mailbox[backup.Trigger]
}

// New creates a watcher for the configured source directory.
func New(cfg config.SourceConfig, log logging.Logger, mb *mailbox.Mailbox[backup.Trigger]) *Watcher {
	return &Watcher{
		dir:       cfg.Path,
		mode:      cfg.Watch.Mode,
		interval:  cfg.Watch.PollInterval,
		debounce:  cfg.Watch.DebounceWindow,
		stability: cfg.Watch.StabilityWindow,
		log:       log,
		mb:        mb,
	}
}

// Start runs the watching strategy selected by config until ctx is done.
// Mode "auto" probes fsnotify support and falls back to polling.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.startFsNotify(ctx)

	case "poll":
		w.startPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(w.dir)
		if res.Supported {
			return w.startFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling instead", "reason", res.Reason)
		w.startPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown watch mode %q", w.mode)
	}
}
