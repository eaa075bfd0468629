package cmd

import (
	"fmt"

	"github.com/riccione/hermes/internal/git"
	"github.com/riccione/hermes/internal/storage"
)

// Path prints where the codex and its companion files live
func Path(s *Session) {
	state := "missing"
	if s.Vault.Exists() {
		state = "present"
	}

	fmt.Printf("Codex:   %s (%s)\n", s.Vault.Path(), state)
	fmt.Printf("Backup:  %s%s\n", s.Vault.BackupPath(), presence(s.Vault.BackupPath()))
	fmt.Printf("Journal: %s%s\n", s.Vault.JournalPath(), presence(s.Vault.JournalPath()))

	if !s.Vault.Exists() {
		return
	}
	files := []string{s.Vault.Path()}
	if storage.Exists(s.Vault.BackupPath()) {
		files = append(files, s.Vault.BackupPath())
	}
	fmt.Print(git.Format(git.Check(files...)))
}

func presence(path string) string {
	if storage.Exists(path) {
		return ""
	}
	return " (none yet)"
}
