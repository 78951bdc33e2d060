package envelope

import "errors"

var (
	// ErrInvalidEnvelope is returned when an envelope fails structural
	// validation on encode or decode.
	ErrInvalidEnvelope = errors.New("envelope: invalid envelope")

	// ErrEnvelopeTooLarge is returned when an encoded envelope exceeds
	// params.MaxEnvelopeBytes. Relays drop anything past the bound, so
	// both directions enforce it.
	ErrEnvelopeTooLarge = errors.New("envelope: envelope exceeds size limit")

	// ErrInvalidMemo is returned when a memo string lacks the prefix or
	// carries undecodable base64.
	ErrInvalidMemo = errors.New("envelope: invalid memo string")
)
