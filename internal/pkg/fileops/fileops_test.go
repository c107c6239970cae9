package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dll")
	dst := filepath.Join(dir, "dst.dll")

	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old and longer"), 0o644))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "absent.dll"), filepath.Join(dir, "dst.dll"))
	require.Error(t, err)
	require.False(t, Exists(filepath.Join(dir, "dst.dll")))
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d3d9.dll")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestIsDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	require.True(t, IsDir(dir))
	require.False(t, IsDir(file))
	require.True(t, IsFile(file))
	require.False(t, IsFile(dir))
	require.False(t, Exists(filepath.Join(dir, "missing")))
}
