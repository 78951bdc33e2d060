// Package stealth implements dual-key stealth addressing on
// edwards25519: recipients publish a meta-address (spend and view
// public keys), senders derive a fresh one-time address per payment,
// and recipients detect payments by scanning announcements with the
// view key alone. Only the spend key can build the key that controls a
// detected payment.
package stealth

import (
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/styx-network/gstyx/crypto"
)

const (
	// PublicKeySize is the width of a compressed curve point.
	PublicKeySize = 32
	// PrivateKeySize is the width of a canonical scalar.
	PrivateKeySize = 32
)

// PublicKey is a compressed edwards25519 point.
type PublicKey [PublicKeySize]byte

// PublicKeyFromBytes validates length and point decoding.
func PublicKeyFromBytes(raw []byte) (PublicKey, error) {
	if len(raw) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(raw))
	}
	var key PublicKey
	copy(key[:], raw)
	if _, err := key.point(); err != nil {
		return PublicKey{}, err
	}
	return key, nil
}

// Bytes returns the compressed encoding.
func (k PublicKey) Bytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, k[:])
	return out
}

func (k PublicKey) point() (*edwards25519.Point, error) {
	p, err := new(edwards25519.Point).SetBytes(k[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return p, nil
}

// KeyPair holds a scalar and its public point.
type KeyPair struct {
	private *edwards25519.Scalar
	public  *edwards25519.Point
}

// NewKeyPair draws a key pair from crypto/rand.
func NewKeyPair() (*KeyPair, error) {
	var seed [64]byte
	for {
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, err
		}
		private, err := new(edwards25519.Scalar).SetUniformBytes(seed[:])
		if err != nil {
			return nil, err
		}
		if !isZeroScalar(private) {
			return keyPairFromScalar(private), nil
		}
	}
}

// KeyPairFromSeed derives a key pair deterministically: the seed is
// expanded with Keccak-512 and reduced to a scalar. Equal seeds always
// yield equal keys, which is what wallet mnemonics need.
func KeyPairFromSeed(seed [32]byte) (*KeyPair, error) {
	private, err := new(edwards25519.Scalar).SetUniformBytes(crypto.Keccak512(seed[:]))
	if err != nil {
		return nil, err
	}
	if isZeroScalar(private) {
		return nil, ErrZeroPrivateKey
	}
	return keyPairFromScalar(private), nil
}

// KeyPairFromPrivateKeyBytes restores a key pair from a canonical
// scalar encoding.
func KeyPairFromPrivateKeyBytes(raw []byte) (*KeyPair, error) {
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPrivateKey, len(raw))
	}
	private, err := new(edwards25519.Scalar).SetCanonicalBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if isZeroScalar(private) {
		return nil, ErrZeroPrivateKey
	}
	return keyPairFromScalar(private), nil
}

// PrivateKeyBytes returns the canonical scalar encoding.
func (k *KeyPair) PrivateKeyBytes() [PrivateKeySize]byte {
	var out [PrivateKeySize]byte
	copy(out[:], k.private.Bytes())
	return out
}

// PublicKey returns the compressed public point.
func (k *KeyPair) PublicKey() PublicKey {
	var out PublicKey
	copy(out[:], k.public.Bytes())
	return out
}

func keyPairFromScalar(private *edwards25519.Scalar) *KeyPair {
	return &KeyPair{
		private: private,
		public:  new(edwards25519.Point).ScalarBaseMult(private),
	}
}

func isZeroScalar(s *edwards25519.Scalar) bool {
	for _, b := range s.Bytes() {
		if b != 0 {
			return false
		}
	}
	return true
}
