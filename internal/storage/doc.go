// Package storage provides file access for the hermes codex.
//
// The codex is a plain text file, one record per line. Every mutation
// rewrites it through an atomic temp-file rename, except appends of a
// single new record.
//
// Backups are plain copies taken before mutations:
//   - routine: <codex>.bak, refreshed before add, remove, update and rename
//   - snapshot: <codex>.<unix>.bak, created before migrate, never reused
//
// A BBolt journal (<codex>.journal) sits next to the codex with two buckets:
//   - config: journal version, creation time, vault id (used as keyring key)
//   - events: history of completed mutations, without secrets
package storage
