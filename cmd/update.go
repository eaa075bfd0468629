package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/riccione/hermes/internal/ui"
)

// Update replaces the secret stored under alias
func Update(ctx context.Context, s *Session, alias, code string, unencrypt bool) {
	if alias == "" || code == "" {
		fmt.Fprintf(os.Stderr, "Error: update requires --alias and --code\n")
		fmt.Fprintf(os.Stderr, "Usage: hermes update -a <alias> -c <code> [-u]\n")
		os.Exit(1)
	}

	res, err := s.Vault.Update(ctx, alias, code, unencrypt, s.Password(ctx))
	if err != nil {
		HandleError(err)
	}

	s.Info("Record for '%s' successfully updated.", alias)
	ui.PrintOTP(os.Stdout, os.Stderr, res.OTP, res.Remaining, s.ShowProgress())
}
