package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/riccione/hermes/internal/storage"
	"github.com/riccione/hermes/internal/ui"
)

// History prints the most recent codex changes, newest first.
// A limit of zero or less prints everything.
func History(s *Session, limit int) {
	path := s.Vault.JournalPath()
	if !storage.Exists(path) {
		fmt.Println("No history recorded yet")
		return
	}

	j, err := storage.OpenJournal(path)
	if err != nil {
		HandleError(err)
	}
	defer j.Close()

	events, err := j.Events(limit)
	if err != nil {
		HandleError(err)
	}
	if len(events) == 0 {
		fmt.Println("No history recorded yet")
		return
	}

	for _, ev := range events {
		fmt.Println(formatEvent(ev))
	}

	if created, err := j.GetCreated(); err == nil {
		fmt.Fprintf(os.Stderr, "\nJournal started %s\n", ui.FormatCreated(created.Unix()))
	}
}

func formatEvent(ev storage.Event) string {
	parts := []string{
		fmt.Sprintf("%4d", ev.Seq),
		ui.FormatCreated(ev.At.Unix()),
		fmt.Sprintf("%-7s", ev.Op),
	}
	if ev.Alias != "" {
		parts = append(parts, ev.Alias)
	}
	if ev.Detail != "" {
		parts = append(parts, "("+ev.Detail+")")
	}
	if ev.Backup != "" {
		parts = append(parts, "backup: "+ev.Backup)
	}
	return strings.Join(parts, "  ")
}
