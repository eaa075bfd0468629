package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/riccione/hermes/internal/config"
	"github.com/riccione/hermes/internal/core"
	"github.com/riccione/hermes/internal/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/term"
)

func newTestSession(t *testing.T, env []byte, flagPassword string) *Session {
	t.Helper()
	cfg := &config.Config{
		CodexPath: filepath.Join(t.TempDir(), "codex"),
		Password:  env,
		Quiet:     true,
	}
	return NewSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), flagPassword)
}

func TestPasswordPrecedence(t *testing.T) {
	s := newTestSession(t, []byte("from-env"), "from-flag")
	pw, err := s.Password(context.Background())()
	require.NoError(t, err)
	assert.Equal(t, []byte("from-flag"), pw)
	assert.Equal(t, SourceFlag, s.Source())

	s = newTestSession(t, []byte("from-env"), "")
	pw, err = s.Password(context.Background())()
	require.NoError(t, err)
	assert.Equal(t, []byte("from-env"), pw)
	assert.Equal(t, SourceEnv, s.Source())
}

func TestPasswordResolvedOnce(t *testing.T) {
	s := newTestSession(t, []byte("from-env"), "")
	get := s.Password(context.Background())

	first, err := get()
	require.NoError(t, err)
	s.Config.Password = []byte("changed")
	second, err := get()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPasswordNotResolvedForPlaintext(t *testing.T) {
	s := newTestSession(t, nil, "")
	_, err := s.Vault.Add(context.Background(), "plain", "JBSWY3DPEHPK3PXP", true, s.Password(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, SourceNone, s.Source())
}

func TestPasswordFromKeyring(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()

	s := newTestSession(t, nil, "")
	_, err := s.Vault.Add(ctx, "github", "JBSWY3DPEHPK3PXP", false, core.StaticPassword([]byte("secret")))
	require.NoError(t, err)

	vaultID, err := s.vaultID(true)
	require.NoError(t, err)
	require.NoError(t, keyring.SavePassword(vaultID, []byte("secret")))
	t.Cleanup(func() { _ = keyring.DeletePassword(vaultID) })

	pw, err := s.Password(ctx)()
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, SourceKeyring, s.Source())
}

func TestStaleKeyringPasswordIsIgnored(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal, would prompt")
	}
	gokeyring.MockInit()
	ctx := context.Background()

	s := newTestSession(t, nil, "")
	_, err := s.Vault.Add(ctx, "github", "JBSWY3DPEHPK3PXP", false, core.StaticPassword([]byte("secret")))
	require.NoError(t, err)

	vaultID, err := s.vaultID(true)
	require.NoError(t, err)
	require.NoError(t, keyring.SavePassword(vaultID, []byte("outdated")))
	t.Cleanup(func() { _ = keyring.DeletePassword(vaultID) })

	_, err = s.Password(ctx)()
	assert.True(t, errors.Is(err, core.ErrPasswordRequired), "falls through to the prompt, got %v", err)
}

func TestVaultIDRequiresJournal(t *testing.T) {
	s := newTestSession(t, nil, "")
	_, err := s.vaultID(false)
	assert.Error(t, err)
	assert.NoFileExists(t, s.Vault.JournalPath())
}
