package cmd

import (
	"context"
	"fmt"
	"os"
)

// Remove deletes every record with the given alias
func Remove(ctx context.Context, s *Session, alias string) {
	if alias == "" {
		fmt.Fprintf(os.Stderr, "Error: rm requires an alias\n")
		fmt.Fprintf(os.Stderr, "Usage: hermes rm -a <alias>\n")
		os.Exit(1)
	}

	change, err := s.Vault.Remove(ctx, alias)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Record for %s removed.\n", change.Alias)
}
