package cmd

import (
	"context"
	"fmt"
)

// Migrate rewrites the codex in the JSON line format
func Migrate(ctx context.Context, s *Session, dryRun bool) {
	if dryRun {
		diff, res, err := s.Vault.PreviewMigration(ctx)
		if err != nil {
			HandleError(err)
		}
		if diff == "" {
			fmt.Println("Codex is already in JSON format, nothing to migrate.")
			return
		}
		fmt.Print(diff)
		fmt.Printf("\n%d records would be written (%d converted, %d unreadable lines dropped).\n",
			res.Records, res.Converted, res.Dropped)
		return
	}

	res, err := s.Vault.Migrate(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Backup created at %s\n", res.Backup)
	if res.Dropped > 0 {
		fmt.Printf("Dropped %d unreadable lines.\n", res.Dropped)
	}
	fmt.Printf("Successfully migrated %d records to JSON format.\n", res.Records)
}
