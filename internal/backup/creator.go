package backup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avoicu/dirkeep/internal/fs"
)

// ErrTargetExists is returned when the backup target path is already taken,
// typically by a previous run within the same second.
var ErrTargetExists = errors.New("backup target already exists")

// Creator performs the recursive copy of the input directory into a freshly
// created target directory.
type Creator struct {
	fs fs.FS
}

// stagingSuffix marks an in-flight copy next to its final name. A leftover
// staging directory from a crashed run is counted and ranked like any other
// entry, so eviction eventually collects it.
const stagingSuffix = ".partial"

func NewCreator(filesystem fs.FS) *Creator {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Creator{fs: filesystem}
}

// Create copies inputDir into target. The target must not exist beforehand.
// The copy lands in a staging directory first and is renamed into place, so
// an interrupted run never leaves a half-written tree under the final name.
func (c *Creator) Create(ctx context.Context, inputDir, target string) error {
	if _, err := os.Lstat(target); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, target)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking target %s: %w", target, err)
	}

	stage := target + stagingSuffix
	if err := c.fs.RemoveAll(stage); err != nil {
		return fmt.Errorf("clearing stale staging %s: %w", stage, err)
	}

	if err := c.fs.CopyTree(ctx, inputDir, stage); err != nil {
		_ = c.fs.RemoveAll(stage)
		return fmt.Errorf("copying %s to %s: %w", inputDir, stage, err)
	}

	if err := c.fs.Rename(ctx, stage, target); err != nil {
		_ = c.fs.RemoveAll(stage)
		return fmt.Errorf("finalizing %s: %w", target, err)
	}
	return nil
}
