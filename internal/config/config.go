// Package config resolves hermes settings from flags and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

const (
	EnvCodex    = "HERMES_CODEX"
	EnvPassword = "HERMES_PASSWORD"
	EnvQuiet    = "HERMES_QUIET"
	EnvDebug    = "HERMES_DEBUG"

	projectDir = "hermes"
	codexFile  = "codex"
)

// Config holds the settings shared by every command
type Config struct {
	CodexPath string
	// Password is the value of HERMES_PASSWORD, nil when unset or empty
	Password []byte
	Quiet    bool
	LogLevel slog.Level
}

// DefaultCodexPath returns <user config dir>/hermes/codex
func DefaultCodexPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, projectDir, codexFile), nil
}

// Load resolves the configuration. The codex path comes from explicitPath,
// then HERMES_CODEX, then the per-user default.
func Load(explicitPath string) (*Config, error) {
	path, err := resolveCodexPath(explicitPath)
	if err != nil {
		return nil, err
	}

	quiet, err := envBool(EnvQuiet)
	if err != nil {
		return nil, err
	}

	debug, err := envBool(EnvDebug)
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return &Config{
		CodexPath: path,
		Password:  PasswordFromEnv(),
		Quiet:     quiet,
		LogLevel:  level,
	}, nil
}

func resolveCodexPath(explicitPath string) (string, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvCodex)
	}
	if path == "" {
		return DefaultCodexPath()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve codex path %q: %w", path, err)
	}
	return abs, nil
}

// PasswordFromEnv reads the password from HERMES_PASSWORD
func PasswordFromEnv() []byte {
	password := os.Getenv(EnvPassword)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, password)
	return result
}

func envBool(key string) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return b, nil
}
