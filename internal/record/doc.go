// Package record defines the codex record and its line encodings.
//
// Each codex line holds zero or one record. Two encodings are understood:
//   - structured: a JSON object with alias, secret, is_unencrypted,
//     algorithm and created_at keys (always used for writing)
//   - legacy: alias:secret:is_unencrypted(0|1):algorithm, read-only,
//     created_at defaults to 0
//
// Lines matching neither encoding are reported as Unparseable and are
// skipped by readers.
package record
