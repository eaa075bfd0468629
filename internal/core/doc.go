// Package core provides the hermes vault operations on a codex file.
//
// Operations:
//   - Add: Store a new TOTP seed, encrypted unless requested otherwise
//   - Remove: Delete every record with an exact alias match
//   - Update: Replace the seed of a record in place
//   - Rename: Change the alias of a record
//   - List: Compute current codes, optionally filtered by alias substring
//   - Migrate: Rewrite legacy lines in the structured encoding
//
// Mutations of an existing codex refresh a routine backup first. A backup
// failure is logged and does not stop the operation, except for Migrate,
// which refuses to run without a snapshot.
package core
