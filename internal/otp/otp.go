package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"strings"
	"time"
)

const (
	Period = 30 // Seconds per time step
	Digits = 6  // Code length
)

var (
	ErrInvalidBase32        = errors.New("invalid base32 secret")
	ErrUnsupportedAlgorithm = errors.New("unsupported totp algorithm")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Normalize upper-cases a user supplied code and strips '=' padding
func Normalize(code string) string {
	return strings.ReplaceAll(strings.ToUpper(code), "=", "")
}

// Decode decodes an unpadded base32 secret. The input is used as-is, call
// Normalize first for user input.
func Decode(code string) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrInvalidBase32)
	}
	if i := strings.IndexFunc(code, notBase32); i >= 0 {
		return nil, fmt.Errorf("%w: illegal character %q at offset %d", ErrInvalidBase32, code[i], i)
	}
	secret, err := encoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase32, err)
	}
	// Reject invalid lengths and non-zero trailing bits
	if encoding.EncodeToString(secret) != code {
		return nil, fmt.Errorf("%w: non-canonical encoding", ErrInvalidBase32)
	}
	return secret, nil
}

func notBase32(r rune) bool {
	return !(r >= 'A' && r <= 'Z' || r >= '2' && r <= '7')
}

// Validate checks that code is canonical unpadded base32
func Validate(code string) error {
	_, err := Decode(code)
	return err
}

// Generate returns the code for the time step containing now
func Generate(secret []byte, algorithm string, now time.Time) (string, error) {
	return hotpCode(secret, Counter(now), algorithm)
}

// GenerateFromBase32 decodes a base32 secret and generates its current code
func GenerateFromBase32(code, algorithm string, now time.Time) (string, error) {
	secret, err := Decode(code)
	if err != nil {
		return "", err
	}
	return Generate(secret, algorithm, now)
}

// Counter returns the time step index for now
func Counter(now time.Time) uint64 {
	unix := now.Unix()
	if unix < 0 {
		return 0
	}
	return uint64(unix) / Period
}

// Remaining returns the seconds left before the next code, in [1, Period]
func Remaining(now time.Time) int {
	unix := now.Unix()
	if unix < 0 {
		return Period
	}
	return Period - int(unix%Period)
}

func hotpCode(secret []byte, counter uint64, algorithm string) (string, error) {
	hf, err := hmacFunc(algorithm)
	if err != nil {
		return "", err
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(hf, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < Digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", Digits, bin%mod), nil
}

func hmacFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", "SHA1":
		return sha1.New, nil
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}
