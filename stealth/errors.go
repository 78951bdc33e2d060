package stealth

import "errors"

var (
	// ErrInvalidMetaAddress is returned when a meta-address string
	// fails to parse: checksum, prefix, version or payload length.
	ErrInvalidMetaAddress = errors.New("stealth: invalid meta-address")

	// ErrInvalidPublicKey is returned when 32 bytes do not decode to a
	// curve point.
	ErrInvalidPublicKey = errors.New("stealth: invalid public key")

	// ErrInvalidPrivateKey is returned when private key bytes are not a
	// canonical scalar.
	ErrInvalidPrivateKey = errors.New("stealth: invalid private key")

	// ErrZeroPrivateKey is returned when a derivation yields the zero
	// scalar.
	ErrZeroPrivateKey = errors.New("stealth: private key scalar must not be zero")
)
