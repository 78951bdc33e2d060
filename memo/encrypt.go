package memo

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/crypto"
)

// Authenticated encryption for memo payloads. XOR masking hides field
// values from index scans but authenticates nothing; payload bodies
// carried with FlagEncrypt are sealed with ChaCha20-Poly1305 so a
// flipped ciphertext bit fails open rather than decoding to garbage.

const (
	// KeySize is the AEAD key width.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the AEAD nonce width.
	NonceSize = chacha20poly1305.NonceSize
	// SealOverhead is the Poly1305 tag appended to every ciphertext.
	SealOverhead = chacha20poly1305.Overhead
)

// SharedKey derives the symmetric key for an (a, b) address pair:
// Keccak256(a || b). Order matters; both ends must agree on which
// party is a. The memo codec uses (sender, recipient).
func SharedKey(a, b common.Address) [KeySize]byte {
	var key [KeySize]byte
	copy(key[:], crypto.Keccak256(a.Bytes(), b.Bytes()))
	return key
}

// DeriveNonce derives a 12-byte AEAD nonce under a domain tag:
// Keccak256(domain || material)[0:12]. The material must be unique per
// (key, message); the codec feeds it the masked recipient field, which
// carries the per-message entropy of the metadata key.
func DeriveNonce(domain string, material []byte) [NonceSize]byte {
	var nonce [NonceSize]byte
	copy(nonce[:], crypto.Keccak256([]byte(domain), material))
	return nonce
}

// Seal encrypts and authenticates plaintext under key and nonce. The
// additional data is authenticated but not encrypted; pass nil when
// the operation has none.
func Seal(key [KeySize]byte, nonce [NonceSize]byte, plaintext, additional []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("memo: aead init: %v", err)
	}
	return aead.Seal(nil, nonce[:], plaintext, additional), nil
}

// Open reverses Seal. Tampered ciphertext, a wrong key, a wrong nonce
// and mismatched additional data all return ErrDecryptFailed; callers
// get no oracle beyond the single failure.
func Open(key [KeySize]byte, nonce [NonceSize]byte, ciphertext, additional []byte) ([]byte, error) {
	if len(ciphertext) < SealOverhead {
		return nil, ErrCiphertextTooShort
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("memo: aead init: %v", err)
	}
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, additional)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

// SealMessage is the composed path used for PrivateMessage and
// PrivateTransfer bodies: key from the (sender, recipient) pair, nonce
// from the masked recipient field under MsgNonceDomain.
func SealMessage(sender, recipient common.Address, encRecipient [32]byte, plaintext []byte) ([]byte, error) {
	key := SharedKey(sender, recipient)
	nonce := DeriveNonce(MsgNonceDomain, encRecipient[:])
	return Seal(key, nonce, plaintext, nil)
}

// OpenMessage reverses SealMessage.
func OpenMessage(sender, recipient common.Address, encRecipient [32]byte, ciphertext []byte) ([]byte, error) {
	key := SharedKey(sender, recipient)
	nonce := DeriveNonce(MsgNonceDomain, encRecipient[:])
	return Open(key, nonce, ciphertext, nil)
}
