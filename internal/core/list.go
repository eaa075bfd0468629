package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riccione/hermes/internal/crypto"
	"github.com/riccione/hermes/internal/otp"
	"github.com/riccione/hermes/internal/record"
)

// ListOptions selects and decodes records for List
type ListOptions struct {
	// Filter keeps records whose alias contains it, ignoring case.
	// Empty keeps everything.
	Filter string
	// Unencrypt skips decryption; encrypted records report ErrPasswordRequired
	Unencrypt bool
}

// Entry is one listed record with its current code
type Entry struct {
	Alias     string
	OTP       string
	Err       error // Per-record failure, OTP is empty when set
	Encrypted bool
	Algorithm string
	CreatedAt int64
}

// Listing is the result of List. All codes share the same instant.
type Listing struct {
	Entries   []Entry
	Remaining int
	Now       time.Time
	Filtered  bool
}

// Single returns the only entry when a filter matched exactly one record
func (l *Listing) Single() (Entry, bool) {
	if !l.Filtered || len(l.Entries) != 1 {
		return Entry{}, false
	}
	return l.Entries[0], true
}

// List computes current codes for the records selected by opts. A password
// is requested only when a selected record is encrypted and Unencrypt is
// not set. Decryption or decoding failures are reported per entry.
func (v *Vault) List(ctx context.Context, opts ListOptions, password PasswordFunc) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := v.readLines()
	if err != nil {
		return nil, err
	}

	records := filterRecords(record.ParseAll(lines), opts.Filter)
	if len(records) == 0 && opts.Filter != "" {
		return nil, fmt.Errorf("%w: no alias matches %q", ErrAliasNotFound, opts.Filter)
	}

	var env *crypto.Envelope
	if !opts.Unencrypt && anyEncrypted(records) {
		pw, err := resolvePassword(password)
		if err != nil {
			return nil, err
		}
		env, err = crypto.NewEnvelope(pw)
		if err != nil {
			return nil, err
		}
		defer env.Destroy()
	}

	now := v.now()
	listing := &Listing{
		Entries:   make([]Entry, 0, len(records)),
		Remaining: otp.Remaining(now),
		Now:       now,
		Filtered:  opts.Filter != "",
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code, err := currentCode(rec, env, now)
		if err != nil {
			v.log.Debug("cannot compute code", "alias", rec.Alias, "error", err)
		}
		listing.Entries = append(listing.Entries, Entry{
			Alias:     rec.Alias,
			OTP:       code,
			Err:       err,
			Encrypted: rec.Encrypted(),
			Algorithm: rec.Algorithm,
			CreatedAt: rec.CreatedAt,
		})
	}

	return listing, nil
}

// VerifyPassword checks password against the first encrypted record. A
// codex without encrypted records accepts any non-empty password.
func (v *Vault) VerifyPassword(ctx context.Context, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env, err := crypto.NewEnvelope(password)
	if err != nil {
		return ErrPasswordRequired
	}
	defer env.Destroy()

	lines, err := v.readLines()
	if err != nil {
		return err
	}

	for _, rec := range record.ParseAll(lines) {
		if !rec.Encrypted() {
			continue
		}
		secret, err := env.Decrypt(rec.Secret)
		if err != nil {
			return err
		}
		return otp.Validate(otp.Normalize(secret))
	}
	return nil
}

// HasEncrypted reports whether the codex holds at least one encrypted
// record. A missing or unreadable codex has none.
func (v *Vault) HasEncrypted() bool {
	lines, err := v.readLines()
	if err != nil {
		return false
	}
	return anyEncrypted(record.ParseAll(lines))
}

// currentCode decrypts rec when needed and generates its code at now.
// env is nil when decryption was not requested.
func currentCode(rec record.Record, env *crypto.Envelope, now time.Time) (string, error) {
	secret := rec.Secret
	if rec.Encrypted() {
		if env == nil {
			return "", ErrPasswordRequired
		}
		plain, err := env.Decrypt(rec.Secret)
		if err != nil {
			return "", err
		}
		secret = plain
	}
	return otp.GenerateFromBase32(otp.Normalize(secret), rec.Algorithm, now)
}

// filterRecords keeps records whose alias contains filter, ignoring case
func filterRecords(records []record.Record, filter string) []record.Record {
	if filter == "" {
		return records
	}
	needle := strings.ToLower(filter)
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Alias), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func anyEncrypted(records []record.Record) bool {
	for _, rec := range records {
		if rec.Encrypted() {
			return true
		}
	}
	return false
}
