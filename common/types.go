// Package common contains the fixed-size value types shared by every
// protocol package: 32-byte hashes and 32-byte account addresses.
package common

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const (
	// HashLength is the expected length of a hash, in bytes.
	HashLength = 32
	// AddressLength is the expected length of an account address, in
	// bytes. Accounts are raw ed25519 public keys, so addresses carry
	// the full 32 bytes with no truncation.
	AddressLength = 32
)

// Hash represents the 32-byte output of the protocol hash function.
type Hash [HashLength]byte

// BytesToHash sets b to a hash, left-padding if b is shorter than 32
// bytes and keeping the rightmost 32 bytes otherwise.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash parses s as a hash value. The 0x prefix is optional.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hash as a 0x-prefixed hex string.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// SetBytes sets the hash to the value of b. If b is larger than 32
// bytes, b is cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It requires an
// exact 32-byte hex string, with or without the 0x prefix.
func (h *Hash) UnmarshalText(input []byte) error {
	return unmarshalFixedText("Hash", input, h[:])
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	return h.UnmarshalText([]byte(s))
}

// MarshalJSON implements json.Marshaler.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// Address represents the 32-byte address of an account.
type Address [AddressLength]byte

// BytesToAddress sets b to an address, left-padding if b is shorter
// than 32 bytes and keeping the rightmost 32 bytes otherwise.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses s as an address. The 0x prefix is optional.
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// IsHexAddress reports whether s is a valid hex encoding of an
// address, with or without the 0x prefix.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the address as a 0x-prefixed hex string.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// SetBytes sets the address to the value of b. If b is larger than 32
// bytes, b is cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It requires an
// exact 32-byte hex string, with or without the 0x prefix.
func (a *Address) UnmarshalText(input []byte) error {
	return unmarshalFixedText("Address", input, a[:])
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

func unmarshalFixedText(typ string, input, out []byte) error {
	raw := input
	if has0xPrefix(string(raw)) {
		raw = raw[2:]
	}
	if len(raw) != len(out)*2 {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), len(out)*2, typ)
	}
	_, err := hex.Decode(out, raw)
	return err
}
