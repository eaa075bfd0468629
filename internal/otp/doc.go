// Package otp computes RFC 6238 time-based one-time passwords.
//
// Parameters are fixed: 30-second step, 6 digits, counter = unix/30.
// The HMAC hash follows the record's algorithm tag (sha1, sha256, sha512).
// Secrets are unpadded RFC 4648 base32 (A-Z, 2-7).
package otp
