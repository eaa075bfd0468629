package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	KeySize   = 32 // AES-256 key size
	BlockSize = aes.BlockSize
)

var (
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrEmptyPassword    = errors.New("empty password")
)

// Envelope encrypts short secrets with a key derived from a password.
// The construction is deterministic: equal inputs give equal ciphertexts.
type Envelope struct {
	key []byte
}

// NewEnvelope derives the envelope key from password. Surrounding whitespace
// in the password is ignored.
func NewEnvelope(password []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(password)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPassword
	}
	sum := sha256.Sum256(trimmed)
	key := make([]byte, KeySize)
	copy(key, sum[:])
	ClearBytes(sum[:])
	return &Envelope{key: key}, nil
}

// Encrypt encrypts plaintext using AES-256-CBC and returns it base64 encoded
func (e *Envelope) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), BlockSize)
	defer ClearBytes(padded)

	iv := make([]byte, BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any failure, wrong password or malformed input,
// is reported as ErrDecryptionFailed.
func (e *Envelope) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", ErrDecryptionFailed)
	}
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext length", ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, BlockSize)
	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)
	defer ClearBytes(plain)

	unpadded, ok := pkcs7Unpad(plain, BlockSize)
	if !ok || !utf8.Valid(unpadded) {
		return "", ErrDecryptionFailed
	}

	return string(unpadded), nil
}

// Destroy clears the envelope key from memory
func (e *Envelope) Destroy() {
	ClearBytes(e.key)
}

// Encrypt is a one-shot helper around NewEnvelope and Envelope.Encrypt
func Encrypt(plaintext string, password []byte) (string, error) {
	env, err := NewEnvelope(password)
	if err != nil {
		return "", err
	}
	defer env.Destroy()
	return env.Encrypt(plaintext)
}

// Decrypt is a one-shot helper around NewEnvelope and Envelope.Decrypt
func Decrypt(ciphertext string, password []byte) (string, error) {
	env, err := NewEnvelope(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	defer env.Destroy()
	return env.Decrypt(ciphertext)
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, size int) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, false
	}
	pad := bytes.Repeat([]byte{byte(n)}, n)
	if subtle.ConstantTimeCompare(data[len(data)-n:], pad) != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
