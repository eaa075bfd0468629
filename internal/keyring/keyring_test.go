package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()

	const vaultID = "0b9f5a9e-4d5e-4c1e-9d7e-3f1c2b6a7d10"
	assert.False(t, HasPassword(vaultID))

	require.NoError(t, SavePassword(vaultID, []byte("password")))
	assert.True(t, HasPassword(vaultID))

	pw, err := GetPassword(vaultID)
	require.NoError(t, err)
	assert.Equal(t, []byte("password"), pw)

	require.NoError(t, DeletePassword(vaultID))
	assert.False(t, HasPassword(vaultID))

	err = DeletePassword(vaultID)
	assert.True(t, errors.Is(err, ErrNotStored))
}
