package fs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// implements recursive directory copying. Directory structure and file
// permissions are preserved; symlinks are recreated, never followed.

func copyTree(ctx context.Context, f FS, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}

		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("reading symlink %s: %w", path, err)
			}
			if err := os.Symlink(link, target); err != nil {
				return fmt.Errorf("recreating symlink %s: %w", target, err)
			}

		default:
			if err := f.CopyFile(ctx, path, target); err != nil {
				return fmt.Errorf("copying %s: %w", rel, err)
			}
		}

		return nil
	})
}
