// Package envelope implements the STYX envelope, the versioned outer
// frame that carries encrypted payloads through memos and relays. An
// envelope binds a kind, a cipher suite and a 32-byte id around an
// opaque body, with optional recipient hash, sender key, nonce,
// associated data and signature fields gated by a flags word.
package envelope

import "github.com/styx-network/gstyx/common"

// Magic opens every binary envelope.
const Magic = "STYX"

// Kind states what the envelope carries.
type Kind uint8

const (
	// KindMessage carries an encrypted private-memo payload.
	KindMessage Kind = 1
	// KindReveal carries a compliance disclosure.
	KindReveal Kind = 2
	// KindKeybundle carries published key material.
	KindKeybundle Kind = 3
)

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k >= KindMessage && k <= KindKeybundle
}

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindReveal:
		return "reveal"
	case KindKeybundle:
		return "keybundle"
	default:
		return "unknown"
	}
}

// Algo names the cipher suite that sealed the body.
type Algo uint8

// AlgoPMF1 is the private-memo format v1 suite: Keccak-derived keys
// with ChaCha20-Poly1305.
const AlgoPMF1 Algo = 1

// Valid reports whether a is a defined suite.
func (a Algo) Valid() bool { return a == AlgoPMF1 }

func (a Algo) String() string {
	if a == AlgoPMF1 {
		return "pmf1"
	}
	return "unknown"
}

// Envelope is the decoded form of a STYX frame. ToHash and From are
// nil when absent; Nonce, AAD and Sig are absent when empty, so a
// present-but-empty field does not survive a round trip.
type Envelope struct {
	Version uint8        `json:"version"`
	Kind    Kind         `json:"kind"`
	Algo    Algo         `json:"algo"`
	ID      common.Hash  `json:"id"`
	ToHash  *common.Hash `json:"toHash,omitempty"`
	From    *common.Hash `json:"from,omitempty"`
	Nonce   []byte       `json:"nonce,omitempty"`
	Body    []byte       `json:"body"`
	AAD     []byte       `json:"aad,omitempty"`
	Sig     []byte       `json:"sig,omitempty"`
}
