package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/riccione/hermes/internal/record"
	"github.com/riccione/hermes/internal/storage"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// MigrateResult summarizes a migration
type MigrateResult struct {
	Records   int    // Records written in structured form
	Converted int    // Of those, records that were in legacy form
	Dropped   int    // Non-blank lines that matched no encoding
	Backup    string // Snapshot taken before writing
}

// Migrate rewrites every record in the structured encoding. A snapshot
// backup is mandatory: if it cannot be created nothing is written.
func (v *Vault) Migrate(ctx context.Context) (*MigrateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !v.Exists() {
		return nil, fmt.Errorf("%w at %s", ErrStoreNotFound, v.path)
	}

	backup, err := storage.SnapshotBackup(v.path, v.now())
	if err != nil {
		return nil, fmt.Errorf("migration aborted: %w", err)
	}

	lines, err := v.readLines()
	if err != nil {
		return nil, err
	}

	out, result, err := migrateLines(lines)
	if err != nil {
		return nil, err
	}
	result.Backup = backup

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := storage.WriteAll(v.path, storage.JoinLines(out)); err != nil {
		return nil, fmt.Errorf("failed to write migrated codex: %w", err)
	}

	v.logEvent(storage.Event{
		Op:     "migrate",
		Detail: fmt.Sprintf("%d records, %d converted, %d dropped", result.Records, result.Converted, result.Dropped),
		Backup: backup,
	})
	return result, nil
}

// PreviewMigration returns what Migrate would do as a line diff, without
// writing or backing up anything. The diff is empty when the codex is
// already fully migrated.
func (v *Vault) PreviewMigration(ctx context.Context) (string, *MigrateResult, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	lines, err := v.readLines()
	if err != nil {
		return "", nil, err
	}

	out, result, err := migrateLines(lines)
	if err != nil {
		return "", nil, err
	}

	return lineDiff(storage.JoinLines(lines), storage.JoinLines(out)), result, nil
}

func migrateLines(lines []string) ([]string, *MigrateResult, error) {
	result := &MigrateResult{}
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		res := record.Parse(line)
		switch res.Format {
		case record.Blank:
			continue
		case record.Unparseable:
			result.Dropped++
			continue
		case record.Legacy:
			result.Converted++
		}

		encoded, err := res.Record.Encode()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, encoded)
		result.Records++
	}

	return out, result, nil
}

// lineDiff renders a line-mode diff with "-", "+" and " " prefixes.
// Identical inputs give an empty string.
func lineDiff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var buf strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String()
}
