package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/riccione/hermes/internal/core"
	"github.com/riccione/hermes/internal/ui"
)

// Output formats for Ls
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Ls prints current codes, optionally filtered by an alias substring.
// A filter matching exactly one record prints the bare code.
func Ls(ctx context.Context, s *Session, filter string, unencrypt bool, format string) {
	if format != FormatTable && format != FormatJSON {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		fmt.Fprintf(os.Stderr, "Supported: %s, %s\n", FormatTable, FormatJSON)
		os.Exit(1)
	}

	listing, err := s.Vault.List(ctx, core.ListOptions{Filter: filter, Unencrypt: unencrypt}, s.Password(ctx))
	if err != nil {
		HandleError(err)
	}

	if format == FormatJSON {
		if err := ui.RenderJSON(os.Stdout, listing); err != nil {
			HandleError(err)
		}
		return
	}

	if entry, ok := listing.Single(); ok {
		if entry.Err != nil {
			HandleError(entry.Err)
		}
		ui.PrintOTP(os.Stdout, os.Stderr, entry.OTP, listing.Remaining, s.ShowProgress())
		return
	}

	if len(listing.Entries) == 0 {
		s.Info("Codex is empty")
		return
	}

	if err := ui.RenderTable(os.Stdout, listing); err != nil {
		HandleError(err)
	}
}
