// Package backup sequences the admission check, eviction and copy that make
// up one backup run.
package backup

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/avoicu/dirkeep/internal/fs"
	"github.com/avoicu/dirkeep/internal/logging"
	"github.com/avoicu/dirkeep/internal/ranker"
	"github.com/avoicu/dirkeep/internal/retention"
	"github.com/avoicu/dirkeep/internal/sizer"
)

// Status classifies the outcome of a run.
type Status int

const (
	// StatusCreated means the backup was copied into place.
	StatusCreated Status = iota
	// StatusTooLarge means admission failed: the input would not fit
	// alongside the most recent previous backup. Nothing was changed.
	StatusTooLarge
	// StatusTargetExists means the generated output name collided with an
	// existing entry. Nothing was changed.
	StatusTargetExists
)

// Result describes what one run did.
type Result struct {
	Status  Status
	Target  string
	Evicted []string
}

// Runner owns one backup configuration and executes runs against it.
type Runner struct {
	inputDir   string
	backupRoot string

	engine  *retention.Engine
	creator *Creator
	log     logging.Logger

	now func() time.Time
}

// NewRunner wires a runner from its collaborators. A nil filesystem or clock
// selects the OS-backed defaults. Names in skip are bookkeeping files kept
// directly inside the backup root (such as an advisory lock file); they are
// invisible to both sizing and ranking.
func NewRunner(inputDir, backupRoot string, budgetKB int64, filesystem fs.FS, log logging.Logger, now func() time.Time, skip ...string) *Runner {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if now == nil {
		now = time.Now
	}
	probe := sizer.New(skip...)
	rank := ranker.New(skip...)
	return &Runner{
		inputDir:   inputDir,
		backupRoot: backupRoot,
		engine:     retention.New(budgetKB, probe, rank, filesystem, log),
		creator:    NewCreator(filesystem),
		log:        log,
		now:        now,
	}
}

// Run performs one backup: names the target, checks admission, evicts old
// entries as needed and copies the input into place. Sizes are re-measured
// from the filesystem at every step; nothing is cached across steps.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	target := TargetPath(r.backupRoot, r.now())

	if _, err := os.Lstat(target); err == nil {
		r.log.Warn("backup target already exists", "target", target)
		return Result{Status: StatusTargetExists, Target: target}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Result{}, err
	}

	ok, err := r.engine.CanAdmit(r.inputDir, r.backupRoot)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		r.log.Info("backup rejected: would not fit alongside the newest previous backup",
			"input", r.inputDir, "root", r.backupRoot)
		return Result{Status: StatusTooLarge, Target: target}, nil
	}

	evicted, err := r.engine.EvictUntilFits(ctx, r.inputDir, r.backupRoot)
	if err != nil {
		return Result{Evicted: evicted}, err
	}

	if err := r.creator.Create(ctx, r.inputDir, target); err != nil {
		if errors.Is(err, ErrTargetExists) {
			// Raced with an external writer between the name check and the
			// copy. Report it the same way as the up-front collision.
			return Result{Status: StatusTargetExists, Target: target, Evicted: evicted}, nil
		}
		return Result{Evicted: evicted}, err
	}

	r.log.Info("backup created", "target", target)
	return Result{Status: StatusCreated, Target: target, Evicted: evicted}, nil
}
