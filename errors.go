// errors.go defines public error types for the cabac package.

package cabac

import "errors"

// Public error types for encoding and decoding operations.
var (
	// ErrContextMismatch indicates a debugcoder reader observed a
	// different context identity than the writer recorded for the same
	// bit position.
	ErrContextMismatch = errors.New("cabac: context identity mismatch")

	// ErrClosed indicates an operation was attempted on a coder after
	// Finish had already been called.
	ErrClosed = errors.New("cabac: coder already finished")
)
