// Package retention decides whether a new backup fits under the size budget
// and evicts the oldest backup entries until it does.
package retention

import (
	"context"
	"fmt"

	"github.com/avoicu/dirkeep/internal/fs"
	"github.com/avoicu/dirkeep/internal/logging"
)

// Sizer reports the disk usage in kilobytes of a directory subtree.
type Sizer interface {
	SizeKB(path string) (int64, error)
}

// Ranker finds the oldest and newest immediate child of a directory.
// ok is false when the directory is empty.
type Ranker interface {
	Oldest(dir string) (path string, ok bool, err error)
	Newest(dir string) (path string, ok bool, err error)
}

// Engine applies the admission and eviction policy for one backup run.
// The budget is fixed for the lifetime of the engine.
type Engine struct {
	budgetKB int64
	sizer    Sizer
	ranker   Ranker
	fs       fs.FS
	log      logging.Logger
}

func New(budgetKB int64, sizer Sizer, ranker Ranker, filesystem fs.FS, log logging.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{
		budgetKB: budgetKB,
		sizer:    sizer,
		ranker:   ranker,
		fs:       filesystem,
		log:      log,
	}
}

// CanAdmit reports whether the input directory fits in the budget alongside
// the most recent existing backup. Eviction never sacrifices the newest
// backup, so admission reserves space for it up front. Pure predicate, no
// side effects.
func (e *Engine) CanAdmit(inputDir, backupRoot string) (bool, error) {
	inputKB, err := e.sizer.SizeKB(inputDir)
	if err != nil {
		return false, err
	}

	var newestKB int64
	newest, ok, err := e.ranker.Newest(backupRoot)
	if err != nil {
		return false, err
	}
	if ok {
		newestKB, err = e.sizer.SizeKB(newest)
		if err != nil {
			return false, err
		}
	}

	admitted := inputKB <= e.budgetKB-newestKB
	e.log.Debug("admission check",
		"inputKB", inputKB, "newestKB", newestKB, "budgetKB", e.budgetKB, "admitted", admitted)
	return admitted, nil
}

// EvictUntilFits removes the oldest backup entry until the backup root plus
// the input directory fit under the budget, or the root is empty. It returns
// the paths removed, oldest first.
//
// Precondition: CanAdmit returned true for the same arguments. That is what
// guarantees the loop stops before it would have to delete the newest entry,
// except in the degenerate case of a single pre-existing backup, where
// oldest and newest coincide and that one entry may be evicted.
func (e *Engine) EvictUntilFits(ctx context.Context, inputDir, backupRoot string) ([]string, error) {
	inputKB, err := e.sizer.SizeKB(inputDir)
	if err != nil {
		return nil, err
	}

	var evicted []string
	for {
		if ctx.Err() != nil {
			return evicted, ctx.Err()
		}

		rootKB, err := e.sizer.SizeKB(backupRoot)
		if err != nil {
			return evicted, err
		}
		if rootKB+inputKB <= e.budgetKB {
			return evicted, nil
		}

		oldest, ok, err := e.ranker.Oldest(backupRoot)
		if err != nil {
			return evicted, err
		}
		if !ok {
			return evicted, nil
		}

		if err := e.remove(oldest); err != nil {
			return evicted, fmt.Errorf("evicting %s: %w", oldest, err)
		}
		e.log.Info("evicted old backup", "path", oldest)
		evicted = append(evicted, oldest)
	}
}

// remove deletes one backup entry: recursively for directories, as a single
// file removal otherwise.
func (e *Engine) remove(path string) error {
	info, err := e.fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir {
		return e.fs.RemoveAll(path)
	}
	return e.fs.Remove(path)
}
