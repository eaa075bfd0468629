package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const (
	DirPermSecure     = 0700 // Directory: owner rwx only
	FilePermSecure    = 0600 // File: owner rw only
	RoutineBackupExt  = "bak"
	JournalExt        = "journal"
	MaxSnapshotCopies = 100 // Max numbered snapshots for the same second
)

var (
	ErrNotFound     = errors.New("codex not found")
	ErrBackupFailed = errors.New("backup failed")
)

// Exists reports whether a file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadLines returns the file content split into lines, without line endings.
// A trailing newline does not produce an empty last line.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read codex at %s: %w", path, err)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return []string{}, nil
	}

	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

// JoinLines renders lines as file content, one per line with a trailing newline
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteAll replaces the file content atomically. Parent directories are
// created when missing.
func WriteAll(path, content string) error {
	if err := EnsureParentDirs(path); err != nil {
		return err
	}
	existed := Exists(path)
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write codex %s: %w", path, err)
	}
	if !existed {
		if err := os.Chmod(path, FilePermSecure); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", path, err)
		}
	}
	return nil
}

// Append adds one trimmed line to an existing file
func Append(path, line string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, FilePermSecure)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to open codex %s: %w", path, err)
	}
	defer f.Close()

	prefix, err := missingNewline(f)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(prefix + strings.TrimSpace(line) + "\n"); err != nil {
		return fmt.Errorf("failed to append to codex %s: %w", path, err)
	}
	return f.Sync()
}

// missingNewline returns "\n" when the file is non-empty and its last byte
// is not a newline.
func missingNewline(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat codex: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read codex tail: %w", err)
	}
	if last[0] == '\n' {
		return "", nil
	}
	return "\n", nil
}

// EnsureParentDirs creates the missing parent directories of path
func EnsureParentDirs(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// SiblingPath replaces the extension of path's file name with ext.
// A leading dot in the file name is not treated as an extension. When the
// file already has extension ext, ext is appended instead, so the result
// never names path itself.
func SiblingPath(path, ext string) string {
	dir, name := filepath.Split(path)
	base := name
	if e := filepath.Ext(name); e != "" && e != name {
		base = strings.TrimSuffix(name, e)
	}
	sibling := dir + base + "." + ext
	if sibling == path {
		return path + "." + ext
	}
	return sibling
}

// RoutineBackupPath returns the reused backup location for path
func RoutineBackupPath(path string) string {
	return SiblingPath(path, RoutineBackupExt)
}

// JournalPath returns the journal database location for path
func JournalPath(path string) string {
	return SiblingPath(path, JournalExt)
}

// RoutineBackup refreshes the single reused backup copy of path
func RoutineBackup(path string) (string, error) {
	backup := RoutineBackupPath(path)
	if err := copyFile(path, backup, false); err != nil {
		return "", err
	}
	return backup, nil
}

// SnapshotBackup copies path to a new file named after the current Unix
// time. Existing snapshots are never overwritten.
func SnapshotBackup(path string, now time.Time) (string, error) {
	stamp := strconv.FormatInt(now.Unix(), 10)

	for i := 0; i < MaxSnapshotCopies; i++ {
		ext := stamp + "." + RoutineBackupExt
		if i > 0 {
			ext = stamp + "." + strconv.Itoa(i) + "." + RoutineBackupExt
		}
		backup := SiblingPath(path, ext)

		err := copyFile(path, backup, true)
		if err == nil {
			return backup, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: all %d snapshot slots for %s are taken", ErrBackupFailed, MaxSnapshotCopies, stamp)
}

func copyFile(src, dst string, exclusive bool) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return fmt.Errorf("%w: backup would overwrite %s", ErrBackupFailed, src)
	}
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w at %s", ErrBackupFailed, ErrNotFound, src)
		}
		return fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}
	defer in.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	out, err := os.OpenFile(dst, flags, FilePermSecure)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: failed to copy %s: %w", ErrBackupFailed, src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}
	return nil
}
