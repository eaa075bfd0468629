package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status contains git exposure information for a set of files
type Status struct {
	IsRepo    bool
	Tracked   []string // Files tracked by git (bad)
	Unignored []string // Files not in .gitignore (warning)
	Ignored   []string // Files in .gitignore (good)
}

// Exposed reports whether any checked file is tracked by git
func (s *Status) Exposed() bool {
	return len(s.Tracked) > 0
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// Check inspects files that all live in the same directory. Files are
// reported by base name.
func Check(files ...string) *Status {
	status := &Status{}
	if len(files) == 0 {
		return status
	}

	workDir := filepath.Dir(files[0])
	if !IsGitRepo(workDir) {
		return status
	}
	status.IsRepo = true

	for _, file := range files {
		name := filepath.Base(file)
		switch {
		case IsTracked(workDir, name):
			status.Tracked = append(status.Tracked, name)
		case IsIgnored(workDir, name):
			status.Ignored = append(status.Ignored, name)
		default:
			status.Unignored = append(status.Unignored, name)
		}
	}

	return status
}

// Format renders status for display. It is empty outside a git work tree.
func Format(status *Status) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	if status.Exposed() {
		result.WriteString(fmt.Sprintf("   error: %d file(s) tracked by git:\n", len(status.Tracked)))
		for _, file := range status.Tracked {
			result.WriteString(fmt.Sprintf("      - %s (run: git rm --cached %s)\n", file, file))
		}
	} else {
		result.WriteString("   ok: no hermes files tracked by git\n")
	}

	for _, file := range status.Unignored {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", file))
	}
	if len(status.Unignored) == 0 && len(status.Ignored) > 0 {
		result.WriteString(fmt.Sprintf("   ok: %d file(s) in .gitignore\n", len(status.Ignored)))
	}

	return result.String()
}
