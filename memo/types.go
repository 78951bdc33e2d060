package memo

import "github.com/styx-network/gstyx/common"

// PrivateMessage is an encrypted direct message. The recipient address
// travels XOR-masked under the sender's metadata key; Payload is the
// (optionally AEAD-sealed) message body.
type PrivateMessage struct {
	Flags        uint8
	EncRecipient [32]byte
	Sender       common.Address
	Payload      []byte

	// AuditorKeys is the optional compliance tail, present only when
	// FlagCompliance is set.
	AuditorKeys []common.Address
}

// RoutedMessage is one layer of an onion-routed message. Each hop
// peels a layer; only the final recipient reads the innermost payload.
type RoutedMessage struct {
	Flags     uint8
	HopCount  uint8
	SessionID [32]byte
	HopIndex  uint8
	NextHop   [32]byte // encrypted next-hop address
	Payload   []byte   // remaining layered ciphertext
}

// PrivateTransfer moves tokens with the amount and recipient hidden.
// EncAmount is the true amount XORed with a mask derived from
// (sender, recipient, AmountNonce); EncRecipient is the recipient
// address XOR-masked under the sender's metadata key.
type PrivateTransfer struct {
	Flags        uint8
	EncRecipient [32]byte
	Sender       common.Address
	EncAmount    uint64
	AmountNonce  [AmountNonceSize]byte
	Memo         []byte // encrypted memo, may be empty
}

// RatchetMessage is a forward-secret message: Counter advances the
// ratchet chain, EphemeralPub carries the sender's current DH key.
type RatchetMessage struct {
	Flags        uint8
	SessionID    [32]byte
	Counter      uint64
	EphemeralPub [32]byte
	Ciphertext   []byte
}

// ComplianceReveal discloses a message's key material to an auditor.
type ComplianceReveal struct {
	Flags         uint8
	MessageID     [32]byte
	Auditor       common.Address
	DisclosureKey [32]byte
	RevealType    RevealType
}
