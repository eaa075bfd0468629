package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const otherCode = "JBSWY3DPEHPK3PXP"

func seedVault(t *testing.T, v *Vault) {
	t.Helper()
	ctx := context.Background()
	pw := StaticPassword(testPassword)

	_, err := v.Add(ctx, "GitHub", testCode, false, pw)
	require.NoError(t, err)
	_, err = v.Add(ctx, "gitlab", otherCode, true, nil)
	require.NoError(t, err)
	_, err = v.Add(ctx, "mail", otherCode, false, pw)
	require.NoError(t, err)
}

func TestListAll(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	listing, err := v.List(context.Background(), ListOptions{}, StaticPassword(testPassword))
	require.NoError(t, err)

	assert.Equal(t, testNow, listing.Now)
	assert.Equal(t, 30, listing.Remaining)
	assert.False(t, listing.Filtered)
	require.Len(t, listing.Entries, 3)

	want := map[string]string{
		"GitHub": expectedOTP(t, testCode),
		"gitlab": expectedOTP(t, otherCode),
		"mail":   expectedOTP(t, otherCode),
	}
	for _, e := range listing.Entries {
		assert.NoError(t, e.Err, e.Alias)
		assert.Equal(t, want[e.Alias], e.OTP, e.Alias)
		assert.Equal(t, "sha1", e.Algorithm)
		assert.Equal(t, testNow.Unix(), e.CreatedAt)
	}
	assert.True(t, listing.Entries[0].Encrypted)
	assert.False(t, listing.Entries[1].Encrypted)

	_, single := listing.Single()
	assert.False(t, single)
}

func TestListFilterIsCaseInsensitiveSubstring(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)
	ctx := context.Background()

	listing, err := v.List(ctx, ListOptions{Filter: "GIT"}, StaticPassword(testPassword))
	require.NoError(t, err)
	assert.True(t, listing.Filtered)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "GitHub", listing.Entries[0].Alias)
	assert.Equal(t, "gitlab", listing.Entries[1].Alias)

	listing, err = v.List(ctx, ListOptions{Filter: "hub"}, StaticPassword(testPassword))
	require.NoError(t, err)
	entry, ok := listing.Single()
	require.True(t, ok)
	assert.Equal(t, "GitHub", entry.Alias)
	assert.Equal(t, expectedOTP(t, testCode), entry.OTP)
}

func TestListFilterNoMatch(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	_, err := v.List(context.Background(), ListOptions{Filter: "bank"}, failingPassword(t))
	assert.ErrorIs(t, err, ErrAliasNotFound)
}

func TestListSkipsPasswordForPlaintextMatches(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	listing, err := v.List(context.Background(), ListOptions{Filter: "lab"}, failingPassword(t))
	require.NoError(t, err)

	entry, ok := listing.Single()
	require.True(t, ok)
	assert.NoError(t, entry.Err)
	assert.Equal(t, expectedOTP(t, otherCode), entry.OTP)
}

func TestListUnencrypt(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	listing, err := v.List(context.Background(), ListOptions{Unencrypt: true}, failingPassword(t))
	require.NoError(t, err)
	require.Len(t, listing.Entries, 3)

	assert.ErrorIs(t, listing.Entries[0].Err, ErrPasswordRequired)
	assert.Empty(t, listing.Entries[0].OTP)
	assert.NoError(t, listing.Entries[1].Err)
	assert.Equal(t, expectedOTP(t, otherCode), listing.Entries[1].OTP)
	assert.ErrorIs(t, listing.Entries[2].Err, ErrPasswordRequired)
}

func TestListWrongPasswordIsPerEntry(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	listing, err := v.List(context.Background(), ListOptions{}, StaticPassword([]byte("wrong")))
	require.NoError(t, err)
	require.Len(t, listing.Entries, 3)

	assert.Error(t, listing.Entries[0].Err)
	assert.Empty(t, listing.Entries[0].OTP)
	assert.NoError(t, listing.Entries[1].Err, "plaintext records still produce codes")
	assert.Error(t, listing.Entries[2].Err)
}

func TestListPasswordRequired(t *testing.T) {
	v := newTestVault(t)
	seedVault(t, v)

	_, err := v.List(context.Background(), ListOptions{}, nil)
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestListLegacyAndBrokenLines(t *testing.T) {
	v := newTestVault(t)
	writeCodex(t, v, "legacy:"+testCode+":1:sha1\n\nnot a record\nbroken:!!!:1:sha1\n")

	listing, err := v.List(context.Background(), ListOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 2)

	assert.Equal(t, "legacy", listing.Entries[0].Alias)
	assert.Equal(t, int64(0), listing.Entries[0].CreatedAt)
	assert.Equal(t, expectedOTP(t, testCode), listing.Entries[0].OTP)

	assert.Equal(t, "broken", listing.Entries[1].Alias)
	assert.ErrorIs(t, listing.Entries[1].Err, ErrInvalidBase32)
}

func TestListEmptyAndMissingCodex(t *testing.T) {
	v := newTestVault(t)

	_, err := v.List(context.Background(), ListOptions{}, nil)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	writeCodex(t, v, "")
	listing, err := v.List(context.Background(), ListOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
}

func TestVerifyPassword(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.Add(ctx, "plain", otherCode, true, nil)
	require.NoError(t, err)
	assert.NoError(t, v.VerifyPassword(ctx, []byte("anything")), "no encrypted records to check against")

	seedVault(t, v)
	assert.NoError(t, v.VerifyPassword(ctx, testPassword))
	assert.Error(t, v.VerifyPassword(ctx, []byte("wrong")))
	assert.ErrorIs(t, v.VerifyPassword(ctx, nil), ErrPasswordRequired)
}

func TestHasEncrypted(t *testing.T) {
	v := newTestVault(t)
	assert.False(t, v.HasEncrypted())

	_, err := v.Add(context.Background(), "plain", otherCode, true, nil)
	require.NoError(t, err)
	assert.False(t, v.HasEncrypted())

	_, err = v.Add(context.Background(), "secret", otherCode, false, StaticPassword(testPassword))
	require.NoError(t, err)
	assert.True(t, v.HasEncrypted())
}
