package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// Delimiter separates fields in the legacy line format
	Delimiter = ":"
	// DefaultAlgorithm is the hash tag written for new records
	DefaultAlgorithm = "sha1"
)

// Record is a single TOTP seed stored in the codex
type Record struct {
	Alias         string `json:"alias"`
	Secret        string `json:"secret"`
	IsUnencrypted bool   `json:"is_unencrypted"`
	Algorithm     string `json:"algorithm"`
	CreatedAt     int64  `json:"created_at"` // Unix seconds, 0 for legacy records
}

// New creates a record stamped with the given creation time
func New(alias, secret string, unencrypted bool, now time.Time) Record {
	return Record{
		Alias:         alias,
		Secret:        secret,
		IsUnencrypted: unencrypted,
		Algorithm:     DefaultAlgorithm,
		CreatedAt:     now.Unix(),
	}
}

// Encrypted reports whether the secret must be decrypted before use
func (r Record) Encrypted() bool {
	return !r.IsUnencrypted
}

// Encode serializes the record into a single structured line without
// a trailing newline.
func (r Record) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("failed to encode record %s: %w", r.Alias, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ValidAlias reports whether alias can be stored. An alias must not be blank
// and must not contain the legacy delimiter.
func ValidAlias(alias string) bool {
	if strings.TrimSpace(alias) == "" {
		return false
	}
	return !strings.Contains(alias, Delimiter)
}
