package escrow

import "errors"

var (
	// ErrInvalidPayload is returned when an escrow payload fails
	// structural validation on encode or decode.
	ErrInvalidPayload = errors.New("escrow: invalid payload")

	// ErrIndexOutOfRange is returned when a leaf index does not exist
	// in the tree.
	ErrIndexOutOfRange = errors.New("escrow: leaf index out of range")

	// ErrProofTooDeep is returned when a proof carries more levels than
	// any supported tree.
	ErrProofTooDeep = errors.New("escrow: proof exceeds maximum tree depth")

	// ErrInvalidDirection is returned when a proof direction byte is
	// neither 0 nor 1.
	ErrInvalidDirection = errors.New("escrow: invalid proof direction")

	// ErrEmptyCampaign is returned when a campaign is built with no
	// entries.
	ErrEmptyCampaign = errors.New("escrow: campaign has no entries")

	// ErrTooManyEntries is returned when a batch exceeds the fixed
	// entry cap. Callers split oversized lists with ChunkEntries.
	ErrTooManyEntries = errors.New("escrow: too many entries in one batch")

	// ErrZeroAmount is returned when an entry allocates nothing.
	ErrZeroAmount = errors.New("escrow: entry amount is zero")

	// ErrDuplicateRecipient is returned when a recipient appears twice
	// in one campaign.
	ErrDuplicateRecipient = errors.New("escrow: duplicate recipient")

	// ErrAmountOverflow is returned when the campaign total does not
	// fit in 64 bits.
	ErrAmountOverflow = errors.New("escrow: total amount overflows")

	// ErrInvalidClaimCode is returned when a claim code fails to parse.
	ErrInvalidClaimCode = errors.New("escrow: invalid claim code")
)
