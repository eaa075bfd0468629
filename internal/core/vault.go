package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riccione/hermes/internal/crypto"
	"github.com/riccione/hermes/internal/otp"
	"github.com/riccione/hermes/internal/record"
	"github.com/riccione/hermes/internal/storage"
)

// PasswordFunc supplies an already resolved password. It is called at most
// once per operation and only when a password is actually needed.
type PasswordFunc func() ([]byte, error)

// StaticPassword returns a PasswordFunc that always yields password
func StaticPassword(password []byte) PasswordFunc {
	return func() ([]byte, error) {
		return password, nil
	}
}

// Vault manages the codex file at a fixed path
type Vault struct {
	path    string
	log     *slog.Logger
	now     func() time.Time
	journal bool
}

// Option configures a Vault
type Option func(*Vault)

// WithLogger sets the logger used for non-fatal warnings
func WithLogger(log *slog.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		if now != nil {
			v.now = now
		}
	}
}

// WithJournal enables or disables the mutation journal
func WithJournal(enabled bool) Option {
	return func(v *Vault) {
		v.journal = enabled
	}
}

// New creates a Vault for the codex at path
func New(path string, opts ...Option) *Vault {
	v := &Vault{
		path:    path,
		log:     slog.Default(),
		now:     time.Now,
		journal: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Path returns the codex location
func (v *Vault) Path() string {
	return v.path
}

// BackupPath returns the routine backup location
func (v *Vault) BackupPath() string {
	return storage.RoutineBackupPath(v.path)
}

// JournalPath returns the journal database location
func (v *Vault) JournalPath() string {
	return storage.JournalPath(v.path)
}

// Exists reports whether the codex file is present
func (v *Vault) Exists() bool {
	return storage.Exists(v.path)
}

// CodeResult is returned by operations that store a secret
type CodeResult struct {
	Record    record.Record
	OTP       string
	Remaining int
	Backup    string // Empty when no backup was taken
}

// Change is returned by operations that only rewrite existing records
type Change struct {
	Alias    string
	NewAlias string
	Backup   string
}

// Add stores a new record. The code is validated before anything else is
// touched, and the current OTP for it is returned as a usability check.
func (v *Vault) Add(ctx context.Context, alias, code string, unencrypt bool, password PasswordFunc) (*CodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateAlias(alias); err != nil {
		return nil, err
	}

	normalized := otp.Normalize(code)
	if err := otp.Validate(normalized); err != nil {
		return nil, err
	}

	exists := v.Exists()
	if exists {
		lines, err := v.readLines()
		if err != nil {
			return nil, err
		}
		if findAlias(lines, alias) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrAliasExists, alias)
		}
	}

	secret, err := v.sealSecret(normalized, unencrypt, password)
	if err != nil {
		return nil, err
	}

	now := v.now()
	rec := record.New(alias, secret, unencrypt, now)
	line, err := rec.Encode()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var backup string
	if exists {
		backup = v.routineBackup()
		if err := storage.Append(v.path, line); err != nil {
			return nil, fmt.Errorf("failed to save record: %w", err)
		}
	} else {
		if err := storage.WriteAll(v.path, storage.JoinLines([]string{line})); err != nil {
			return nil, fmt.Errorf("failed to create codex: %w", err)
		}
		v.log.Debug("codex created", "path", v.path)
	}

	v.logEvent(storage.Event{Op: "add", Alias: alias, Detail: secretKind(unencrypt), Backup: backup, At: now})

	current, err := otp.GenerateFromBase32(normalized, rec.Algorithm, now)
	if err != nil {
		return nil, fmt.Errorf("record saved but code generation failed: %w", err)
	}

	return &CodeResult{
		Record:    rec,
		OTP:       current,
		Remaining: otp.Remaining(now),
		Backup:    backup,
	}, nil
}

// Remove deletes every record whose alias matches exactly
func (v *Vault) Remove(ctx context.Context, alias string) (*Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := v.readLines()
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(lines))
	found := false
	for _, line := range lines {
		res := record.Parse(line)
		if res.OK() && res.Record.Alias == alias {
			found = true
			continue
		}
		if res.Format == record.Blank {
			continue
		}
		kept = append(kept, line)
	}

	if !found {
		return nil, fmt.Errorf("%w: %s", ErrAliasNotFound, alias)
	}

	backup := v.routineBackup()
	if err := storage.WriteAll(v.path, storage.JoinLines(kept)); err != nil {
		return nil, fmt.Errorf("failed to update codex: %w", err)
	}

	v.logEvent(storage.Event{Op: "remove", Alias: alias, Backup: backup})
	return &Change{Alias: alias, Backup: backup}, nil
}

// Update replaces the secret of an existing record. The record keeps its
// position in the codex and gets a fresh creation time. Every line holding
// alias is replaced. The whole codex is rewritten in a single atomic write.
func (v *Vault) Update(ctx context.Context, alias, code string, unencrypt bool, password PasswordFunc) (*CodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := otp.Normalize(code)
	if err := otp.Validate(normalized); err != nil {
		return nil, err
	}

	lines, err := v.readLines()
	if err != nil {
		return nil, err
	}
	matches := findAliases(lines, alias)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAliasNotFound, alias)
	}

	secret, err := v.sealSecret(normalized, unencrypt, password)
	if err != nil {
		return nil, err
	}

	now := v.now()
	rec := record.New(alias, secret, unencrypt, now)
	line, err := rec.Encode()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	replacements := make(map[int]string, len(matches))
	for _, idx := range matches {
		replacements[idx] = line
	}
	backup, err := v.replaceLines(lines, replacements)
	if err != nil {
		return nil, err
	}

	v.logEvent(storage.Event{Op: "update", Alias: alias, Detail: secretKind(unencrypt), Backup: backup, At: now})

	current, err := otp.GenerateFromBase32(normalized, rec.Algorithm, now)
	if err != nil {
		return nil, fmt.Errorf("record updated but code generation failed: %w", err)
	}

	return &CodeResult{
		Record:    rec,
		OTP:       current,
		Remaining: otp.Remaining(now),
		Backup:    backup,
	}, nil
}

// Rename changes the alias of every record holding oldAlias, leaving every
// other field intact
func (v *Vault) Rename(ctx context.Context, oldAlias, newAlias string) (*Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateAlias(newAlias); err != nil {
		return nil, err
	}

	lines, err := v.readLines()
	if err != nil {
		return nil, err
	}

	if findAlias(lines, newAlias) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrAliasExists, newAlias)
	}
	matches := findAliases(lines, oldAlias)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAliasNotFound, oldAlias)
	}

	replacements := make(map[int]string, len(matches))
	for _, idx := range matches {
		rec := record.Parse(lines[idx]).Record
		rec.Alias = newAlias
		line, err := rec.Encode()
		if err != nil {
			return nil, err
		}
		replacements[idx] = line
	}

	backup, err := v.replaceLines(lines, replacements)
	if err != nil {
		return nil, err
	}

	v.logEvent(storage.Event{Op: "rename", Alias: newAlias, Detail: "from " + oldAlias, Backup: backup})
	return &Change{Alias: oldAlias, NewAlias: newAlias, Backup: backup}, nil
}

// readLines reads the codex, failing with ErrStoreNotFound when it is missing
func (v *Vault) readLines() ([]string, error) {
	return storage.ReadLines(v.path)
}

// replaceLines takes a routine backup and rewrites the codex with each
// indexed line swapped for its replacement. Blank lines are dropped.
func (v *Vault) replaceLines(lines []string, replacements map[int]string) (string, error) {
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if line, ok := replacements[i]; ok {
			out = append(out, line)
			continue
		}
		if record.Parse(l).Format == record.Blank {
			continue
		}
		out = append(out, l)
	}

	backup := v.routineBackup()
	if err := storage.WriteAll(v.path, storage.JoinLines(out)); err != nil {
		return "", fmt.Errorf("failed to update codex: %w", err)
	}
	return backup, nil
}

// routineBackup refreshes the routine backup. Failure is only logged.
func (v *Vault) routineBackup() string {
	backup, err := storage.RoutineBackup(v.path)
	if err != nil {
		v.log.Warn("could not create backup file", "path", v.BackupPath(), "error", err)
		return ""
	}
	return backup
}

// sealSecret encrypts the normalized code unless unencrypt is set
func (v *Vault) sealSecret(normalized string, unencrypt bool, password PasswordFunc) (string, error) {
	if unencrypt {
		return normalized, nil
	}

	pw, err := resolvePassword(password)
	if err != nil {
		return "", err
	}

	secret, err := crypto.Encrypt(normalized, pw)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return secret, nil
}

// logEvent appends to the journal. Failure is only logged.
func (v *Vault) logEvent(ev storage.Event) {
	if !v.journal {
		return
	}
	if ev.At.IsZero() {
		ev.At = v.now()
	}

	j, err := storage.OpenJournal(v.JournalPath())
	if err != nil {
		v.log.Warn("could not open journal", "path", v.JournalPath(), "error", err)
		return
	}
	defer j.Close()

	if _, err := j.AppendEvent(ev); err != nil {
		v.log.Warn("could not record journal event", "op", ev.Op, "error", err)
	}
}

func resolvePassword(password PasswordFunc) ([]byte, error) {
	if password == nil {
		return nil, ErrPasswordRequired
	}
	pw, err := password()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(pw)) == 0 {
		return nil, ErrPasswordRequired
	}
	return pw, nil
}

func validateAlias(alias string) error {
	if !record.ValidAlias(alias) {
		return fmt.Errorf("%w: %q must not be empty or contain %q", ErrInvalidAlias, alias, record.Delimiter)
	}
	return nil
}

// findAlias returns the index of the first line holding alias, or -1.
// Matching is exact and case-sensitive.
func findAlias(lines []string, alias string) int {
	for i, line := range lines {
		if res := record.Parse(line); res.OK() && res.Record.Alias == alias {
			return i
		}
	}
	return -1
}

// findAliases returns the indexes of every line holding alias
func findAliases(lines []string, alias string) []int {
	var idx []int
	for i, line := range lines {
		if res := record.Parse(line); res.OK() && res.Record.Alias == alias {
			idx = append(idx, i)
		}
	}
	return idx
}

func secretKind(unencrypt bool) string {
	if unencrypt {
		return "plaintext"
	}
	return "encrypted"
}
