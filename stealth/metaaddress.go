package stealth

import "fmt"

const (
	// MetaAddressHRP prefixes every meta-address string.
	MetaAddressHRP = "styxmeta"

	metaAddressVersion = 1
	metaAddressLen     = 1 + 2*PublicKeySize
)

// MetaAddress is a recipient's published stealth identity: the spend
// key controls derived payments, the view key only detects them. The
// string form is bech32 with payload version || spendPub || viewPub.
type MetaAddress struct {
	SpendPub PublicKey
	ViewPub  PublicKey
}

// NewMetaAddress assembles the published form of a spend/view pair.
func NewMetaAddress(spend, view *KeyPair) *MetaAddress {
	return &MetaAddress{SpendPub: spend.PublicKey(), ViewPub: view.PublicKey()}
}

// String renders the bech32 form, e.g. "styxmeta1q…".
func (m *MetaAddress) String() string {
	payload := make([]byte, 0, metaAddressLen)
	payload = append(payload, metaAddressVersion)
	payload = append(payload, m.SpendPub[:]...)
	payload = append(payload, m.ViewPub[:]...)
	grouped, err := convertBits(payload, 8, 5, true)
	if err != nil {
		panic(err) // 8-bit input cannot exceed 8 bits
	}
	return bech32Encode(MetaAddressHRP, grouped)
}

// ParseMetaAddress decodes and validates a meta-address string. Both
// embedded keys must be valid curve points. Every failure wraps
// ErrInvalidMetaAddress.
func ParseMetaAddress(s string) (*MetaAddress, error) {
	hrp, grouped, err := bech32Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetaAddress, err)
	}
	if hrp != MetaAddressHRP {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidMetaAddress, hrp)
	}
	payload, err := convertBits(grouped, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetaAddress, err)
	}
	if len(payload) != metaAddressLen {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrInvalidMetaAddress, len(payload))
	}
	if payload[0] != metaAddressVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidMetaAddress, payload[0])
	}

	spend, err := PublicKeyFromBytes(payload[1 : 1+PublicKeySize])
	if err != nil {
		return nil, fmt.Errorf("%w: spend key: %v", ErrInvalidMetaAddress, err)
	}
	view, err := PublicKeyFromBytes(payload[1+PublicKeySize:])
	if err != nil {
		return nil, fmt.Errorf("%w: view key: %v", ErrInvalidMetaAddress, err)
	}
	return &MetaAddress{SpendPub: spend, ViewPub: view}, nil
}
