package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb\n\nc\n"), 0600))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, lines)
}

func TestReadLinesEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	lines, err := ReadLines(empty)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = ReadLines(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWriteAllCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "hermes", "codex")

	require.NoError(t, WriteAll(path, JoinLines([]string{"one", "two"})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePermSecure), info.Mode().Perm())

	require.NoError(t, WriteAll(path, ""))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))

	require.NoError(t, Append(path, "  second  "))
	require.NoError(t, Append(path, "third\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\n", string(data))
}

func TestAppendMissingFile(t *testing.T) {
	err := Append(filepath.Join(t.TempDir(), "codex"), "line")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"/home/u/.config/hermes/codex", "bak", "/home/u/.config/hermes/codex.bak"},
		{"/tmp/codes.txt", "bak", "/tmp/codes.bak"},
		{"/tmp/.codex", "bak", "/tmp/.codex.bak"},
		{"codex", "1700000000.bak", "codex.1700000000.bak"},
		{"/tmp/dir.d/codex", "journal", "/tmp/dir.d/codex.journal"},
		{"/tmp/codes.bak", "bak", "/tmp/codes.bak.bak"},
		{"/tmp/codes.journal", "journal", "/tmp/codes.journal.journal"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), SiblingPath(filepath.FromSlash(tt.path), tt.ext))
	}
}

func TestRoutineBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(path, []byte("v1\n"), 0600))

	backup, err := RoutineBackup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	require.NoError(t, os.WriteFile(path, []byte("v2\n"), 0600))
	_, err = RoutineBackup(path)
	require.NoError(t, err)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(data), "routine backup is refreshed in place")
}

func TestRoutineBackupOfBakCodex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.bak")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0600))

	backup, err := RoutineBackup(path)
	require.NoError(t, err)
	assert.NotEqual(t, path, backup)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data), "codex must survive its own backup")

	data, err = os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestCopyFileRefusesSamePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(path, []byte("keep\n"), 0600))

	err := copyFile(path, path, false)
	assert.True(t, errors.Is(err, ErrBackupFailed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))
}

func TestRoutineBackupMissingSource(t *testing.T) {
	_, err := RoutineBackup(filepath.Join(t.TempDir(), "codex"))
	assert.True(t, errors.Is(err, ErrBackupFailed))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSnapshotBackupNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(path, []byte("v1\n"), 0600))
	now := time.Unix(1700000000, 0)

	first, err := SnapshotBackup(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".1700000000.bak", first)

	require.NoError(t, os.WriteFile(path, []byte("v2\n"), 0600))
	second, err := SnapshotBackup(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".1700000000.1.bak", second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(data))
}
