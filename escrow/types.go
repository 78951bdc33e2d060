// Package escrow implements the client side of the WhisperDrop escrow
// program: salted Merkle distribution trees, campaign manifests and
// the wire payloads that fund and claim them.
package escrow

import "github.com/styx-network/gstyx/common"

// Entry is one recipient allocation in a distribution.
type Entry struct {
	Recipient common.Address `json:"recipient"`
	Amount    uint64         `json:"amount"`
}

// Campaign is the on-chain identity of a distribution: everything the
// program stores at init time. The entry list itself stays off-chain;
// third parties audit it against ManifestHash and Root.
type Campaign struct {
	ID           [32]byte    `json:"id"`
	ManifestHash common.Hash `json:"manifestHash"`
	Root         common.Hash `json:"root"`
	Salt         [32]byte    `json:"salt"`
	Expiry       uint64      `json:"expiry"`
}

// Proof is a Merkle membership proof for one leaf. Directions record,
// per level, whether the running node was the right-hand element
// (direction 1); they are redundant with Index and validated against
// it.
type Proof struct {
	Leaf       common.Hash
	Siblings   []common.Hash
	Directions []byte
	Index      uint32
}

// InitCampaign registers a campaign: its manifest commitment, Merkle
// root, tree salt and expiry.
type InitCampaign struct {
	CampaignID   [32]byte
	ManifestHash common.Hash
	Root         common.Hash
	TreeSalt     [32]byte
	Expiry       uint64
}

// Deposit funds a campaign's escrow vault.
type Deposit struct {
	CampaignID [32]byte
	Amount     uint64
}

// Claim redeems one allocation. The verifier recomputes the leaf from
// (Recipient, Amount, Index) and the stored tree salt, so the leaf
// itself never travels.
type Claim struct {
	CampaignID [32]byte
	Recipient  common.Address
	Amount     uint64
	Index      uint32
	Siblings   []common.Hash
	Directions []byte
}
