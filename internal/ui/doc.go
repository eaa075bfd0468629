// Package ui renders codes and listings for the terminal.
//
// Codes always go to stdout on their own line so they can be piped. The
// countdown bar is decoration and goes to stderr.
package ui
