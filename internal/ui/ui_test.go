package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riccione/hermes/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
	}{
		{30, "[####################] 30s remaining"},
		{15, "[##########..........] 15s remaining"},
		{1, "[....................] 1s remaining"},
		{0, "[....................] 0s remaining"},
		{45, "[####################] 30s remaining"},
		{-3, "[....................] 0s remaining"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.remaining))
	}
}

func TestPrintOTP(t *testing.T) {
	var stdout, stderr bytes.Buffer

	PrintOTP(&stdout, &stderr, "123456", 15, true)
	assert.Equal(t, "123456\n", stdout.String())
	assert.Equal(t, ProgressBar(15)+"\n", stderr.String())

	stdout.Reset()
	stderr.Reset()
	PrintOTP(&stdout, &stderr, "123456", 15, false)
	assert.Equal(t, "123456\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func testListing() *core.Listing {
	return &core.Listing{
		Now:       time.Unix(1700000010, 0),
		Remaining: 30,
		Entries: []core.Entry{
			{Alias: "github", OTP: "123456", Encrypted: true, CreatedAt: 1700000000},
			{Alias: "mail", Err: core.ErrPasswordRequired, Encrypted: true},
			{Alias: "broken", Err: errors.Join(core.ErrInvalidBase32, errors.New("bad")), CreatedAt: 0},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, testListing()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Current System Unix Time: 1700000010", lines[0])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Alias           | OTP        | Rem ", lines[4])
	assert.Equal(t, "----------------|------------|-----", lines[5])
	assert.Equal(t, "github          | 123456     | 30s", lines[6])
	assert.Equal(t, "mail            | locked     | 30s", lines[7])
	assert.Equal(t, "broken          | error      | 30s", lines[8])
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, testListing()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "github", got[0]["alias"])
	assert.Equal(t, "123456", got[0]["otp"])
	assert.Equal(t, float64(30), got[0]["remaining_secs"])
	assert.Equal(t, true, got[0]["is_encrypted"])
	assert.Equal(t, float64(1700000000), got[0]["created_at"])
	assert.NotContains(t, got[0], "error")

	assert.Equal(t, "locked", got[1]["otp"])
	assert.Equal(t, "password required", got[1]["error"])
	assert.Equal(t, "error", got[2]["otp"])
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, &core.Listing{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCreated(t *testing.T) {
	assert.Equal(t, "-", FormatCreated(0))
	assert.Equal(t, time.Unix(1700000000, 0).Format(time.RFC3339), FormatCreated(1700000000))
}
