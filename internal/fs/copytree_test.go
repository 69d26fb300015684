package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTree_PreservesStructureAndContent(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("deep"), 0o600))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, New().CopyTree(context.Background(), src, dst))

	top, err := os.ReadFile(filepath.Join(dst, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(top))

	deep, err := os.ReadFile(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(deep))

	info, err := os.Stat(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyTree_RecreatesSymlinks(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "real.txt"), []byte("real"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(src, "link.txt")))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, New().CopyTree(context.Background(), src, dst))

	link, err := os.Readlink(filepath.Join(dst, "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", link)
}

func TestCopyTree_MissingSourceFails(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "copy")
	err := New().CopyTree(context.Background(), filepath.Join(t.TempDir(), "gone"), dst)
	assert.Error(t, err)
}

func TestCopyTree_CancelledContext(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().CopyTree(ctx, src, filepath.Join(t.TempDir(), "copy"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCopyFile_CopiesContentAndMode(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))

	dst := filepath.Join(t.TempDir(), "dst.bin")
	require.NoError(t, New().CopyFile(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestRename_MovesDirectoryWithContents(t *testing.T) {
	base := t.TempDir()
	oldPath := filepath.Join(base, "in-flight")
	require.NoError(t, os.MkdirAll(oldPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(oldPath, "f.txt"), []byte("x"), 0o644))

	newPath := filepath.Join(base, "final")
	require.NoError(t, New().Rename(context.Background(), oldPath, newPath))

	_, err := os.Lstat(oldPath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	data, err := os.ReadFile(filepath.Join(newPath, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestStat_ReportsDirAndInode(t *testing.T) {
	dir := t.TempDir()

	info, err := New().Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir)
	assert.Equal(t, dir, info.Path)
}
