package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/riccione/hermes/internal/core"
	"github.com/riccione/hermes/internal/crypto"
	"github.com/riccione/hermes/internal/keyring"
)

// KeyringSave saves the codex password to the OS keyring
func KeyringSave(ctx context.Context, s *Session) {
	if !s.Vault.Exists() {
		HandleError(fmt.Errorf("%w at %s", core.ErrStoreNotFound, s.Vault.Path()))
	}

	// Prompt for password unless it was given explicitly
	password := s.flagPassword
	if len(password) == 0 {
		password = s.Config.Password
	}
	if len(password) == 0 {
		pw, err := ReadPassword("Enter password: ")
		if err != nil {
			HandleError(err)
		}
		defer crypto.ClearBytes(pw)
		password = pw
	}

	// Verify password is correct
	if err := s.Vault.VerifyPassword(ctx, password); err != nil {
		HandleError(err)
	}

	// Get vault ID (create if not exists)
	vaultID, err := s.vaultID(true)
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the codex password from the OS keyring
func KeyringDelete(s *Session) {
	vaultID, err := s.vaultID(false)
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		if errors.Is(err, keyring.ErrNotStored) {
			fmt.Println("No password stored in keyring")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: failed to remove from keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(s *Session) {
	vaultID, err := s.vaultID(false)
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
