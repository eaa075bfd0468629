// Package git checks whether hermes files sit inside a git work tree.
//
// Checks performed for the codex and its backups:
//   - Whether the file is tracked by git (should not be)
//   - Whether the file is covered by .gitignore (should be)
//
// These checks help users avoid committing TOTP seeds, including the
// plaintext ones kept in backups.
package git
