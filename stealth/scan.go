package stealth

import "filippo.io/edwards25519"

// Scanner detects payments to one meta-address. It holds the view
// private key and the spend public key only, so a scanning service
// given a Scanner can watch for payments but never spend them.
type Scanner struct {
	viewPriv *edwards25519.Scalar
	spendPub PublicKey
}

// NewScanner builds a view-only scanner from the published spend key
// and the view private key.
func NewScanner(spendPub PublicKey, viewPriv []byte) (*Scanner, error) {
	if _, err := spendPub.point(); err != nil {
		return nil, err
	}
	view, err := KeyPairFromPrivateKeyBytes(viewPriv)
	if err != nil {
		return nil, err
	}
	return &Scanner{viewPriv: view.private, spendPub: spendPub}, nil
}

// Match reports whether an announcement pays this scanner's
// meta-address. The view tag rejects almost all foreign announcements
// after a single shared-secret computation; survivors get the full
// address and point recomputation. Errors surface only for
// announcements whose ephemeral key is not a curve point.
func (s *Scanner) Match(annc *Announcement) (bool, error) {
	d, err := derive(s.viewPriv, annc.EphemeralPub)
	if err != nil {
		return false, err
	}
	if d.hash[0] != annc.ViewTag {
		return false, nil
	}
	addr, oneTimePub, err := d.oneTime(s.spendPub)
	if err != nil {
		return false, err
	}
	return addr == annc.OneTimeAddress && oneTimePub == annc.OneTimePub, nil
}

// DeriveSpendKey builds the key controlling a detected payment:
// spendPriv plus the per-payment tweak. Its public point equals the
// announcement's OneTimePub.
func DeriveSpendKey(spend *KeyPair, viewPriv []byte, ephemeralPub PublicKey) (*KeyPair, error) {
	view, err := KeyPairFromPrivateKeyBytes(viewPriv)
	if err != nil {
		return nil, err
	}
	d, err := derive(view.private, ephemeralPub)
	if err != nil {
		return nil, err
	}
	private := new(edwards25519.Scalar).Add(spend.private, d.tweak)
	if isZeroScalar(private) {
		return nil, ErrZeroPrivateKey
	}
	return keyPairFromScalar(private), nil
}
