package cmd

import (
	"context"
	"fmt"
	"os"
)

// Rename changes the alias of a record
func Rename(ctx context.Context, s *Session, oldAlias, newAlias string) {
	if oldAlias == "" || newAlias == "" {
		fmt.Fprintf(os.Stderr, "Error: rename requires the old and the new alias\n")
		fmt.Fprintf(os.Stderr, "Usage: hermes rename <old> <new>\n")
		os.Exit(1)
	}

	change, err := s.Vault.Rename(ctx, oldAlias, newAlias)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Successfully renamed '%s' to '%s'\n", change.Alias, change.NewAlias)
}
