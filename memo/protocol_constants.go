package memo

// Protocol-level frozen constants for the private-memo domain (PMP v3).
//
// Any change to these values breaks compatibility with the deployed
// program and must be treated as a protocol upgrade.
const (
	// Operation tags. The deployed handler dispatches on the first byte
	// of its (domain-stripped) view, so these values double as view
	// byte 0.
	OpPrivateMessage   uint8 = 3
	OpRoutedMessage    uint8 = 4
	OpPrivateTransfer  uint8 = 5
	OpRatchetMessage   uint8 = 7
	OpComplianceReveal uint8 = 8

	// Flag bits, byte 1 of every memo operation.
	FlagEncrypt    uint8 = 0x01
	FlagStealth    uint8 = 0x02
	FlagCompliance uint8 = 0x10

	// Key-derivation domain tags. Each hash use is scoped by one of
	// these ASCII prefixes; reordering or retagging changes every
	// derived value.
	RatchetChainDomain = "STYX_RATCHET_CHAIN_V1"
	RatchetMsgDomain   = "STYX_RATCHET_MSG_V1"
	TransferDomain     = "STYX_TRANSFER_V1"
	MetadataKeyDomain  = "STYX_METADATA_KEY_V3"
	MsgNonceDomain     = "STYX_MSG_NONCE_V3"
	NullifierDomain    = "STYX_NULLIFIER_V1"

	// AmountNonceSize is the width of the per-transfer mask nonce.
	AmountNonceSize = 8
)

// RevealType selects how much a compliance disclosure exposes.
type RevealType uint8

const (
	RevealFull RevealType = iota
	RevealAmount
	RevealRecipient
	RevealMetadata
)

// Valid reports whether t is one of the defined disclosure levels.
func (t RevealType) Valid() bool { return t <= RevealMetadata }

func (t RevealType) String() string {
	switch t {
	case RevealFull:
		return "full"
	case RevealAmount:
		return "amount"
	case RevealRecipient:
		return "recipient"
	case RevealMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}
