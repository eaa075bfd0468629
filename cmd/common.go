package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/riccione/hermes/internal/config"
	"github.com/riccione/hermes/internal/core"
	"github.com/riccione/hermes/internal/crypto"
	"github.com/riccione/hermes/internal/keyring"
	"github.com/riccione/hermes/internal/storage"
	"github.com/riccione/hermes/internal/ui"
)

// PasswordSource tells where a resolved password came from
type PasswordSource string

const (
	SourceNone    PasswordSource = ""
	SourceFlag    PasswordSource = "flag"
	SourceEnv     PasswordSource = "environment"
	SourceKeyring PasswordSource = "keyring"
	SourcePrompt  PasswordSource = "prompt"
)

// Session carries everything a command needs for one invocation
type Session struct {
	Config *config.Config
	Log    *slog.Logger
	Vault  *core.Vault

	// ConfirmPrompt asks twice when the password has to be typed in
	ConfirmPrompt bool

	flagPassword []byte
	password     []byte
	source       PasswordSource
	resolved     bool
}

// NewSession builds the vault for cfg. flagPassword is the --password value,
// empty when not given.
func NewSession(cfg *config.Config, log *slog.Logger, flagPassword string) *Session {
	s := &Session{
		Config: cfg,
		Log:    log,
		Vault:  core.New(cfg.CodexPath, core.WithLogger(log)),
	}
	if flagPassword != "" {
		s.flagPassword = []byte(flagPassword)
	}
	return s
}

// Close wipes any password held by the session
func (s *Session) Close() {
	crypto.ClearBytes(s.password)
	crypto.ClearBytes(s.flagPassword)
	crypto.ClearBytes(s.Config.Password)
}

// ShowProgress reports whether the countdown bar should be drawn
func (s *Session) ShowProgress() bool {
	return !s.Config.Quiet && ui.IsTerminal(os.Stderr)
}

// Password returns a PasswordFunc that resolves the password on first use:
// --password, then HERMES_PASSWORD, then the OS keyring, then a prompt.
func (s *Session) Password(ctx context.Context) core.PasswordFunc {
	return func() ([]byte, error) {
		if s.resolved {
			return s.password, nil
		}

		pw, source, err := s.resolvePassword(ctx)
		if err != nil {
			return nil, err
		}
		s.password, s.source, s.resolved = pw, source, true
		s.Log.Debug("password resolved", "source", string(source))
		return pw, nil
	}
}

// Source returns where the password came from, empty if it was never needed
func (s *Session) Source() PasswordSource {
	return s.source
}

func (s *Session) resolvePassword(ctx context.Context) ([]byte, PasswordSource, error) {
	if len(s.flagPassword) > 0 {
		return s.flagPassword, SourceFlag, nil
	}
	if len(s.Config.Password) > 0 {
		return s.Config.Password, SourceEnv, nil
	}

	if pw := s.keyringPassword(ctx); pw != nil {
		return pw, SourceKeyring, nil
	}

	read := func() ([]byte, error) { return ReadPassword("Enter password: ") }
	if s.ConfirmPrompt {
		read = ReadPasswordConfirm
	}
	pw, err := read()
	if err != nil {
		return nil, SourceNone, err
	}
	return pw, SourcePrompt, nil
}

// keyringPassword returns the cached password for this codex, or nil. A
// cached password that no longer opens the codex is ignored.
func (s *Session) keyringPassword(ctx context.Context) []byte {
	vaultID, err := s.vaultID(false)
	if err != nil {
		return nil
	}

	pw, err := keyring.GetPassword(vaultID)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotStored) {
			s.Log.Debug("keyring lookup failed", "error", err)
		}
		return nil
	}

	if err := s.Vault.VerifyPassword(ctx, pw); err != nil {
		s.Log.Warn("password in keyring does not match codex, ignoring it")
		crypto.ClearBytes(pw)
		return nil
	}
	return pw
}

// vaultID reads the codex id from the journal. With create set a missing
// id is generated; otherwise a missing journal is an error.
func (s *Session) vaultID(create bool) (string, error) {
	path := s.Vault.JournalPath()
	if !create && !storage.Exists(path) {
		return "", storage.ErrVaultIDNotFound
	}

	j, err := storage.OpenJournal(path)
	if err != nil {
		return "", err
	}
	defer j.Close()

	if create {
		return j.GetOrCreateVaultID()
	}
	return j.GetVaultID()
}

// Info prints a status message to stderr unless quiet
func (s *Session) Info(format string, args ...any) {
	if s.Config.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// HandleError prints err with a hint where one helps, then exits
func HandleError(err error) {
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "Error: interrupted\n")
	case errors.Is(err, core.ErrStoreNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Run 'hermes add -a <alias> -c <code>' to create it\n")
	case errors.Is(err, core.ErrInvalidBase32):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The code must be base32 (A-Z, 2-7); '=' padding is ignored\n")
	case errors.Is(err, core.ErrAliasExists):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Choose a unique name or use 'hermes update'\n")
	case errors.Is(err, core.ErrAliasNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'hermes ls' to see stored aliases\n")
	case errors.Is(err, core.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: wrong password or corrupt record\n")
	case errors.Is(err, core.ErrPasswordRequired):
		fmt.Fprintf(os.Stderr, "Error: password required\n")
		fmt.Fprintf(os.Stderr, "Use --password, %s or 'hermes keyring save'\n", config.EnvPassword)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
