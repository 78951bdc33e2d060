package memo

import "errors"

var (
	// ErrInvalidPayload is returned when a memo payload fails structural
	// validation on encode or decode.
	ErrInvalidPayload = errors.New("memo: invalid payload")

	// ErrTooManyHops is returned when a routed message declares more
	// hops than the handler accepts.
	ErrTooManyHops = errors.New("memo: too many hops")

	// ErrInvalidRevealType is returned when a compliance reveal is
	// encoded with an undefined disclosure level.
	ErrInvalidRevealType = errors.New("memo: invalid reveal type")

	// ErrCiphertextTooShort is returned when an AEAD ciphertext is
	// shorter than its authentication tag.
	ErrCiphertextTooShort = errors.New("memo: ciphertext too short")

	// ErrDecryptFailed is returned when AEAD authentication fails.
	ErrDecryptFailed = errors.New("memo: decrypt failed")

	// ErrSessionClosed is returned when a ratchet session is used after
	// Close.
	ErrSessionClosed = errors.New("memo: ratchet session closed")

	// ErrCounterSkipTooLarge is returned when an inbound ratchet counter
	// would skip the chain further ahead than the session caches.
	ErrCounterSkipTooLarge = errors.New("memo: ratchet counter skips too far ahead")

	// ErrCounterReplayed is returned when an inbound ratchet counter at
	// or below the chain position has no cached key: the message was
	// already consumed, or its key fell out of the skipped-key cache.
	ErrCounterReplayed = errors.New("memo: ratchet counter replayed")
)
