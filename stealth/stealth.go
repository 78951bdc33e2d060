package stealth

import (
	"filippo.io/edwards25519"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/crypto"
)

// StealthDomain scopes every hash in the derivation. The same shared
// secret feeds two expansions: Keccak-256 for the recognition hash and
// Keccak-512 for the wide scalar tweak.
const StealthDomain = "STYX_STEALTH_V1"

// Announcement is what a sender publishes alongside a payment. The
// ephemeral key and view tag let the recipient detect the payment; the
// one-time address and key receive it. Nothing in it links back to the
// recipient's meta-address.
type Announcement struct {
	EphemeralPub PublicKey

	// ViewTag is the first byte of the recognition hash. Scanners
	// discard ~255/256 of foreign announcements on this byte alone,
	// before any point multiplication beyond the shared secret.
	ViewTag byte

	// OneTimeAddress is the hash-form address the payment is indexed
	// under.
	OneTimeAddress common.Address

	// OneTimePub is the curve point the derived spend key controls.
	OneTimePub PublicKey
}

// derivation is the per-payment secret material both sides compute:
// the sender from (ephPriv, ViewPub), the recipient from
// (viewPriv, EphemeralPub).
type derivation struct {
	hash  []byte
	tweak *edwards25519.Scalar
}

func derive(priv *edwards25519.Scalar, pub PublicKey) (*derivation, error) {
	point, err := pub.point()
	if err != nil {
		return nil, err
	}
	shared := new(edwards25519.Point).ScalarMult(priv, point).Bytes()

	tweak, err := new(edwards25519.Scalar).SetUniformBytes(crypto.Keccak512([]byte(StealthDomain), shared))
	if err != nil {
		return nil, err
	}
	return &derivation{
		hash:  crypto.Keccak256([]byte(StealthDomain), shared),
		tweak: tweak,
	}, nil
}

// oneTime maps a derivation onto a meta-address's spend key: the
// recognition address and the tweaked public point.
func (d *derivation) oneTime(spendPub PublicKey) (common.Address, PublicKey, error) {
	spendPoint, err := spendPub.point()
	if err != nil {
		return common.Address{}, PublicKey{}, err
	}
	tweakPoint := new(edwards25519.Point).ScalarBaseMult(d.tweak)
	oneTimePoint := new(edwards25519.Point).Add(spendPoint, tweakPoint)

	var oneTimePub PublicKey
	copy(oneTimePub[:], oneTimePoint.Bytes())
	addr := common.BytesToAddress(crypto.Keccak256(spendPub[:], d.hash))
	return addr, oneTimePub, nil
}

// Announce derives the one-time payment target for a meta-address
// using a fresh ephemeral key. The ephemeral key must never be reused:
// reuse links every payment made with it.
func Announce(meta *MetaAddress, eph *KeyPair) (*Announcement, error) {
	d, err := derive(eph.private, meta.ViewPub)
	if err != nil {
		return nil, err
	}
	addr, oneTimePub, err := d.oneTime(meta.SpendPub)
	if err != nil {
		return nil, err
	}
	return &Announcement{
		EphemeralPub:   eph.PublicKey(),
		ViewTag:        d.hash[0],
		OneTimeAddress: addr,
		OneTimePub:     oneTimePub,
	}, nil
}
