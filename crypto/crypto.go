// Package crypto implements the protocol hash primitives.
//
// Every hash in the protocol is legacy Keccak-256 (the original Keccak
// submission, 0x01 multi-rate padding), NOT the final NIST SHA3-256
// standard, which pads with 0x06 and produces entirely different
// digests for identical input. The deployed on-chain verifier commits
// to the legacy variant, so substituting SHA3-256 here is a silent
// interoperability break rather than a runtime error: masks,
// commitments and Merkle roots would all still look like valid 32-byte
// values. crypto_test.go pins digests for both variants to catch an
// accidental swap.
package crypto

import (
	"hash"

	"github.com/styx-network/gstyx/common"
	"golang.org/x/crypto/sha3"
)

// HashLength is the byte length of a Keccak-256 digest.
const HashLength = 32

// KeccakState wraps sha3.state. In addition to the usual hash methods,
// it also supports Read to get a variable amount of data from the hash
// state. Read is faster than Sum because it doesn't copy the internal
// state, but also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak-256 hash of the input
// data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, HashLength)
	d := NewKeccakState()
	for _, v := range data {
		d.Write(v)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak-256 hash of the
// input data, converting it to a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, v := range data {
		d.Write(v)
	}
	d.Read(h[:])
	return h
}

// Keccak512 calculates and returns the Keccak-512 hash of the input
// data. It is used where a wide (64-byte) digest is needed, e.g. to
// derive curve scalars by uniform reduction.
func Keccak512(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak512()
	for _, v := range data {
		d.Write(v)
	}
	return d.Sum(nil)
}
