package core

import (
	"errors"

	"github.com/riccione/hermes/internal/crypto"
	"github.com/riccione/hermes/internal/otp"
	"github.com/riccione/hermes/internal/storage"
)

var (
	ErrInvalidAlias     = errors.New("invalid alias")
	ErrAliasExists      = errors.New("alias already exists")
	ErrAliasNotFound    = errors.New("alias not found")
	ErrPasswordRequired = errors.New("password required")
)

// Errors surfaced unchanged from the lower layers, re-exported so callers
// only need this package.
var (
	ErrStoreNotFound    = storage.ErrNotFound
	ErrBackupFailed     = storage.ErrBackupFailed
	ErrInvalidBase32    = otp.ErrInvalidBase32
	ErrDecryptionFailed = crypto.ErrDecryptionFailed
)
