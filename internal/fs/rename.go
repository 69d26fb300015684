package fs

import (
	"context"
	"os"
)

// renameWithRetry moves a finished staging copy to its final backup name,
// absorbing transient errors the same way the copy path does.
func renameWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}
