package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasename(t *testing.T) {
	base, err := Basename("/var/log/syslog")
	require.NoError(t, err)
	assert.Equal(t, "syslog", base)

	_, err = Basename("/")
	require.Error(t, err)
}

func TestDirname(t *testing.T) {
	dir, err := Dirname("/var/log/syslog")
	require.NoError(t, err)
	assert.Equal(t, "/var/log", dir)

	dir, err = Dirname("syslog")
	require.NoError(t, err)
	assert.Equal(t, "", dir)
}

func TestCanonicalResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := writeTestFile(t, dir, "real.txt", "x")
	link := filepath.Join(dir, "alias.txt")
	require.NoError(t, os.Symlink(target, link))

	resolved, err := Canonical(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(target), filepath.Base(resolved))
	assert.True(t, filepath.IsAbs(resolved))
}

func TestCanonicalRequiresExistence(t *testing.T) {
	_, err := Canonical("/nonexistent/nowhere")
	require.Error(t, err)
}

func TestReadLinkBrokenSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink("/nonexistent/target", link))

	target, err := ReadLink(link)
	require.NoError(t, err)
	assert.Equal(t, "/nonexistent/target", target)
}

func TestReadLinkRejectsRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "plain.txt", "x")

	_, err := ReadLink(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a symbolic link")
}

func TestHardLink(t *testing.T) {
	dir := t.TempDir()
	target := writeTestFile(t, dir, "original.txt", "shared")
	link := filepath.Join(dir, "nested", "hard.txt")

	require.NoError(t, HardLink(target, link))

	data, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "shared", string(data))
}

func TestHardLinkRejectsDirectory(t *testing.T) {
	dir := t.TempDir()

	err := HardLink(dir, filepath.Join(dir, "link"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot hard link directory")
}

func TestSymlinkToMissingTarget(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "future")

	require.NoError(t, Symlink(filepath.Join(dir, "not-yet"), link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestMakeTemporaryFile(t *testing.T) {
	base := t.TempDir()

	path, err := MakeTemporary("file", base)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Equal(t, base, filepath.Dir(path))
}

func TestMakeTemporaryDir(t *testing.T) {
	base := t.TempDir()

	path, err := MakeTemporary("dir", base)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(path) })

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMakeTemporaryRejectsUnknownKind(t *testing.T) {
	_, err := MakeTemporary("socket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestWorkingDirectory(t *testing.T) {
	wd, err := WorkingDirectory()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(wd))
}
