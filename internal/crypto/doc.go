// Package crypto provides the password envelope for codex secrets.
//
// Encryption uses AES-256-CBC with:
//   - 32-byte key = SHA-256 of the trimmed password
//   - all-zero IV, so equal inputs produce equal ciphertexts
//   - PKCS#7 padding, standard base64 output
//
// Decryption never panics: wrong passwords and malformed input both return
// ErrDecryptionFailed.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Envelope.Destroy() when done with an envelope
package crypto
