package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/riccione/hermes/internal/ui"
)

// Add stores a new secret and prints its current code
func Add(ctx context.Context, s *Session, alias, code string, unencrypt bool) {
	if alias == "" || code == "" {
		fmt.Fprintf(os.Stderr, "Error: add requires --alias and --code\n")
		fmt.Fprintf(os.Stderr, "Usage: hermes add -a <alias> -c <code> [-u]\n")
		os.Exit(1)
	}

	creating := !s.Vault.Exists()
	// Ask twice before the first encrypted secret is written
	s.ConfirmPrompt = !s.Vault.HasEncrypted()

	res, err := s.Vault.Add(ctx, alias, code, unencrypt, s.Password(ctx))
	if err != nil {
		HandleError(err)
	}

	if creating {
		s.Info("Record saved to new codex at %s", s.Vault.Path())
	} else {
		s.Info("Record for '%s' saved.", alias)
	}
	ui.PrintOTP(os.Stdout, os.Stderr, res.OTP, res.Remaining, s.ShowProgress())
}
