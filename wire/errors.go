package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload is returned when a buffer is shorter than the
	// operation's minimum length or a length-prefixed field would read
	// past the end. It always fires before any cryptographic work.
	ErrMalformedPayload = errors.New("wire: malformed payload")

	// ErrUnknownOperation is returned when no schema is registered for
	// a (domain, operation) pair.
	ErrUnknownOperation = errors.New("wire: unknown operation")

	// ErrOversize is returned when a payload exceeds MaxInstructionBytes.
	ErrOversize = errors.New("wire: payload exceeds instruction size limit")

	// ErrTrailingBytes reports bytes left over after the last schema
	// field of an operation that does not allow a tail. It is a
	// malformed-payload condition.
	ErrTrailingBytes = fmt.Errorf("%w: trailing bytes", ErrMalformedPayload)

	// ErrFieldTooLong is returned when a variable-length field exceeds
	// its length prefix range on encode.
	ErrFieldTooLong = errors.New("wire: field exceeds length prefix range")
)
