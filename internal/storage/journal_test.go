package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestOpenJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "codex.journal")

	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}

	created, err := j.GetCreated()
	if err != nil {
		t.Fatalf("Failed to get created time: %v", err)
	}
	if created.IsZero() {
		t.Error("Created time should be set")
	}
	j.Close()

	// Reopening keeps the original creation time
	j, err = OpenJournal(path)
	if err != nil {
		t.Fatalf("Failed to reopen journal: %v", err)
	}
	defer j.Close()

	again, err := j.GetCreated()
	if err != nil {
		t.Fatalf("Failed to get created time: %v", err)
	}
	if !again.Equal(created) {
		t.Errorf("Created time changed: got %v, want %v", again, created)
	}
}

func TestVaultID(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "codex.journal"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()

	if _, err := j.GetVaultID(); err != ErrVaultIDNotFound {
		t.Errorf("Expected ErrVaultIDNotFound, got %v", err)
	}

	id, err := j.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("Failed to create vault ID: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("Expected UUID string, got %q", id)
	}

	again, err := j.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("Failed to get vault ID: %v", err)
	}
	if again != id {
		t.Errorf("Vault ID changed: got %s, want %s", again, id)
	}
}

func TestEvents(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "codex.journal"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()

	at := time.Unix(1700000000, 0)
	for _, op := range []string{"add", "rename", "remove"} {
		if _, err := j.AppendEvent(Event{Op: op, Alias: "github", At: at}); err != nil {
			t.Fatalf("Failed to append %s: %v", op, err)
		}
	}

	events, err := j.Events(0)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Op != "remove" || events[0].Seq != 3 {
		t.Errorf("Expected newest event first, got %+v", events[0])
	}
	if events[2].Op != "add" || events[2].Seq != 1 {
		t.Errorf("Expected oldest event last, got %+v", events[2])
	}

	limited, err := j.Events(2)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 events, got %d", len(limited))
	}
}
