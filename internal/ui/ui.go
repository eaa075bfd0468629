package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/riccione/hermes/internal/core"
	"github.com/riccione/hermes/internal/otp"
	"golang.org/x/term"
)

const (
	BarWidth = 20

	LockedPlaceholder = "locked"
	ErrorPlaceholder  = "error"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ProgressBar renders the time left in the current step,
// e.g. "[##########..........] 15s remaining"
func ProgressBar(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	if remaining > otp.Period {
		remaining = otp.Period
	}
	filled := remaining * BarWidth / otp.Period
	return fmt.Sprintf("[%s%s] %ds remaining",
		strings.Repeat("#", filled),
		strings.Repeat(".", BarWidth-filled),
		remaining)
}

// PrintOTP writes code to stdout. The progress bar goes to stderr when
// showBar is set.
func PrintOTP(stdout, stderr io.Writer, code string, remaining int, showBar bool) {
	if showBar {
		fmt.Fprintln(stderr, ProgressBar(remaining))
	}
	fmt.Fprintln(stdout, code)
}

// Cell returns the OTP column text for an entry
func Cell(e core.Entry) string {
	switch {
	case e.Err == nil:
		return e.OTP
	case errors.Is(e.Err, core.ErrPasswordRequired):
		return LockedPlaceholder
	default:
		return ErrorPlaceholder
	}
}

// RenderTable writes the listing as an aligned table, preceded by the
// system clock so skew is easy to spot.
func RenderTable(w io.Writer, l *core.Listing) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Current System Unix Time: %d\n", l.Now.Unix())
	b.WriteString("Hint: If this is off by >30s, OTP codes will fail.\n")
	b.WriteString("Compare this at https://www.unixtimestamp.com if codes fail.\n\n")

	fmt.Fprintf(&b, "%-15s | %-10s | %-4s\n", "Alias", "OTP", "Rem")
	fmt.Fprintf(&b, "%s-|-%s-|-%s\n", strings.Repeat("-", 15), strings.Repeat("-", 10), strings.Repeat("-", 4))
	for _, e := range l.Entries {
		fmt.Fprintf(&b, "%-15s | %-10s | %ds\n", e.Alias, Cell(e), l.Remaining)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonEntry struct {
	Alias         string `json:"alias"`
	OTP           string `json:"otp"`
	RemainingSecs int    `json:"remaining_secs"`
	IsEncrypted   bool   `json:"is_encrypted"`
	CreatedAt     int64  `json:"created_at"`
	Error         string `json:"error,omitempty"`
}

// RenderJSON writes the listing as a pretty printed JSON array
func RenderJSON(w io.Writer, l *core.Listing) error {
	out := make([]jsonEntry, 0, len(l.Entries))
	for _, e := range l.Entries {
		je := jsonEntry{
			Alias:         e.Alias,
			OTP:           Cell(e),
			RemainingSecs: l.Remaining,
			IsEncrypted:   e.Encrypted,
			CreatedAt:     e.CreatedAt,
		}
		if e.Err != nil {
			je.Error = e.Err.Error()
		}
		out = append(out, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// FormatCreated renders a record creation time, "-" for legacy records
func FormatCreated(createdAt int64) string {
	if createdAt <= 0 {
		return "-"
	}
	return time.Unix(createdAt, 0).Format(time.RFC3339)
}
