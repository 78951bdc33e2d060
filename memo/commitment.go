package memo

import (
	"encoding/binary"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/crypto"
)

// Commitment and nullifier derivation. Every derived value follows the
// same domain-separated pattern: Keccak256(ASCII_TAG || input_1 || …)
// with inputs in a canonical order. Reordering inputs or changing a
// tag yields a value the on-chain verifier will not recognize.

// Commit binds a hidden (secret, amount, nonce) tuple to a public
// 32-byte commitment: Keccak256(secret || amount_LE64 || nonce).
// The caller supplies a fresh nonce per commitment.
func Commit(secret []byte, amount uint64, nonce []byte) common.Hash {
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], amount)
	return crypto.Keccak256Hash(secret, amt[:], nonce)
}

// Nullify derives the spend-proof nullifier of a commitment. Identical
// (commitment, secret) pairs always produce the identical nullifier,
// which is what lets the program detect a double spend: the first
// published nullifier marks the commitment spent.
func Nullify(commitment common.Hash, secret []byte) common.Hash {
	return crypto.Keccak256Hash([]byte(NullifierDomain), commitment.Bytes(), secret)
}

// MaskU64 derives an 8-byte XOR mask under the given domain tag:
// the first 8 bytes of Keccak256(tag || inputs…), read little-endian.
//
// XOR masking hides a value, nothing more: it is not authenticated and
// repeats if the same inputs recur, so one of the inputs must be a
// fresh nonce.
func MaskU64(tag string, inputs ...[]byte) uint64 {
	data := make([][]byte, 0, len(inputs)+1)
	data = append(data, []byte(tag))
	data = append(data, inputs...)
	sum := crypto.Keccak256(data...)
	return binary.LittleEndian.Uint64(sum[:8])
}

// AmountMask derives the transfer-amount mask for a (sender,
// recipient, nonce) triple.
func AmountMask(sender common.Address, recipient common.Address, nonce [AmountNonceSize]byte) uint64 {
	return MaskU64(TransferDomain, sender.Bytes(), recipient.Bytes(), nonce[:])
}

// MaskAmount hides amount for the wire; UnmaskAmount recovers it. XOR
// is its own inverse, so the two are the same operation under
// different names.
func MaskAmount(amount uint64, sender, recipient common.Address, nonce [AmountNonceSize]byte) uint64 {
	return amount ^ AmountMask(sender, recipient, nonce)
}

// UnmaskAmount recovers a masked transfer amount.
func UnmaskAmount(encAmount uint64, sender, recipient common.Address, nonce [AmountNonceSize]byte) uint64 {
	return encAmount ^ AmountMask(sender, recipient, nonce)
}

// recipientKey is the 32-byte XOR pad hiding a recipient address:
// Keccak256("STYX_METADATA_KEY_V3" || sender).
func recipientKey(sender common.Address) []byte {
	return crypto.Keccak256([]byte(MetadataKeyDomain), sender.Bytes())
}

// EncryptRecipient masks a recipient address under the sender's
// metadata key. Anyone who knows the sender can strip the mask: it
// keeps the recipient out of naive address-index scans, not away from
// a determined observer. Stealth addresses are the stronger tool.
func EncryptRecipient(sender common.Address, recipient common.Address) [32]byte {
	key := recipientKey(sender)
	var out [32]byte
	for i := range out {
		out[i] = recipient[i] ^ key[i]
	}
	return out
}

// DecryptRecipient reverses EncryptRecipient.
func DecryptRecipient(sender common.Address, enc [32]byte) common.Address {
	key := recipientKey(sender)
	var out common.Address
	for i := range out {
		out[i] = enc[i] ^ key[i]
	}
	return out
}
