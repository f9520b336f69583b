// file: internal/fsops/fsops_test.go
package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *LocalFS {
	t.Helper()
	return NewLocalFS(t.TempDir())
}

func TestWriteAndRead(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Write("t.txt", "hello"))

	got, err := lfs.Read("t.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestWriteCreatesParentDirs(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Write("nested/dir/file.txt", "x"))

	got, err := lfs.Read("nested/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestListDirectory_DirsBeforeFiles(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Mkdir("zdir"))
	require.NoError(t, lfs.Write("afile.txt", "x"))
	require.NoError(t, lfs.Write("bfile.txt", "x"))

	entries, err := lfs.List(".")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "zdir", entries[0].Name)
	assert.Equal(t, "afile.txt", entries[1].Name)
	assert.Equal(t, "bfile.txt", entries[2].Name)
}

func TestStatFile(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Write("t.txt", "hello"))

	stat, err := lfs.Stat("t.txt")
	require.NoError(t, err)
	assert.False(t, stat.IsDir)
	assert.EqualValues(t, 5, stat.Size)
	require.NotNil(t, stat.Modified)
}

func TestStatDir(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Mkdir("d"))

	stat, err := lfs.Stat("d")
	require.NoError(t, err)
	assert.True(t, stat.IsDir)
}

func TestMkdirNested(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Mkdir("a/b/c"))

	stat, err := lfs.Stat("a/b/c")
	require.NoError(t, err)
	assert.True(t, stat.IsDir)
}

func TestRemoveFile(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Write("t.txt", "x"))
	require.NoError(t, lfs.Remove("t.txt"))

	_, err := os.Stat(filepath.Join(lfs.Root, "t.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveNonEmptyDir(t *testing.T) {
	lfs := newTestFS(t)
	require.NoError(t, lfs.Write("d/t.txt", "x"))
	require.NoError(t, lfs.Remove("d"))

	_, err := os.Stat(filepath.Join(lfs.Root, "d"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadNonexistentFails(t *testing.T) {
	lfs := newTestFS(t)
	_, err := lfs.Read("missing.txt")
	assert.Error(t, err)
}
