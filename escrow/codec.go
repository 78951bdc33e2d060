package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/params"
	"github.com/styx-network/gstyx/wire"
)

func finish(s *wire.Schema, w *wire.Writer) ([]byte, error) {
	raw := w.Bytes()
	if len(raw) > params.MaxInstructionBytes {
		return nil, fmt.Errorf("%w: %s encodes to %d bytes", wire.ErrOversize, s.Name, len(raw))
	}
	if _, _, err := s.Walk(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// EncodeInitCampaign serializes a campaign registration.
func EncodeInitCampaign(p InitCampaign) ([]byte, error) {
	w := wire.NewWriter(initCampaignSchema.MinLen())
	w.PutU8(uint8(Domain))
	w.PutU8(OpInitCampaign)
	w.PutBytes(p.CampaignID[:])
	w.PutBytes(p.ManifestHash.Bytes())
	w.PutBytes(p.Root.Bytes())
	w.PutBytes(p.TreeSalt[:])
	w.PutU64(p.Expiry)
	return finish(initCampaignSchema, w)
}

// DecodeInitCampaign parses a campaign registration payload.
func DecodeInitCampaign(raw []byte) (InitCampaign, error) {
	fields, _, err := initCampaignSchema.Walk(raw)
	if err != nil {
		return InitCampaign{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p InitCampaign
	copy(p.CampaignID[:], fields[0].Data)
	p.ManifestHash = common.BytesToHash(fields[1].Data)
	p.Root = common.BytesToHash(fields[2].Data)
	copy(p.TreeSalt[:], fields[3].Data)
	p.Expiry = binary.LittleEndian.Uint64(fields[4].Data)
	return p, nil
}

// EncodeDeposit serializes a vault funding payload.
func EncodeDeposit(p Deposit) ([]byte, error) {
	w := wire.NewWriter(depositSchema.MinLen())
	w.PutU8(uint8(Domain))
	w.PutU8(OpDeposit)
	w.PutBytes(p.CampaignID[:])
	w.PutU64(p.Amount)
	return finish(depositSchema, w)
}

// DecodeDeposit parses a vault funding payload.
func DecodeDeposit(raw []byte) (Deposit, error) {
	fields, _, err := depositSchema.Walk(raw)
	if err != nil {
		return Deposit{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p Deposit
	copy(p.CampaignID[:], fields[0].Data)
	p.Amount = binary.LittleEndian.Uint64(fields[1].Data)
	return p, nil
}

// checkProofShape enforces the proof-group bounds shared by the claim
// codec and the claim-code codec.
func checkProofShape(siblings []common.Hash, directions []byte) error {
	if len(siblings) != len(directions) {
		return fmt.Errorf("%w: %d siblings, %d directions", ErrInvalidPayload, len(siblings), len(directions))
	}
	if len(siblings) > params.MaxTreeDepth {
		return fmt.Errorf("%w: %d levels", ErrProofTooDeep, len(siblings))
	}
	for i, d := range directions {
		if d > 1 {
			return fmt.Errorf("%w: byte %d is %#x", ErrInvalidDirection, i, d)
		}
	}
	return nil
}

// EncodeClaim serializes a claim. The proof group travels as a u8
// sibling count, the siblings, then one direction byte per level.
func EncodeClaim(p Claim) ([]byte, error) {
	if err := checkProofShape(p.Siblings, p.Directions); err != nil {
		return nil, err
	}
	w := wire.NewWriter(claimSchema.MinLen() + len(p.Siblings)*33)
	w.PutU8(uint8(Domain))
	w.PutU8(OpClaim)
	w.PutBytes(p.CampaignID[:])
	w.PutBytes(p.Recipient.Bytes())
	w.PutU64(p.Amount)
	w.PutU32(p.Index)
	w.PutU8(uint8(len(p.Siblings)))
	for _, sib := range p.Siblings {
		w.PutBytes(sib.Bytes())
	}
	w.PutBytes(p.Directions)
	return finish(claimSchema, w)
}

// DecodeClaim parses a claim payload and validates the proof group.
func DecodeClaim(raw []byte) (Claim, error) {
	fields, _, err := claimSchema.Walk(raw)
	if err != nil {
		return Claim{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p Claim
	copy(p.CampaignID[:], fields[0].Data)
	p.Recipient = common.BytesToAddress(fields[1].Data)
	p.Amount = binary.LittleEndian.Uint64(fields[2].Data)
	p.Index = binary.LittleEndian.Uint32(fields[3].Data)

	group := fields[4].Data
	count := len(group) / 33
	p.Siblings = make([]common.Hash, count)
	for i := range p.Siblings {
		p.Siblings[i] = common.BytesToHash(group[i*32 : (i+1)*32])
	}
	p.Directions = common.CopyBytes(group[count*32:])
	if err := checkProofShape(p.Siblings, p.Directions); err != nil {
		return Claim{}, err
	}
	return p, nil
}

// Proof rebuilds the membership proof a claim carries, recomputing the
// leaf from the claim fields and the campaign's tree salt exactly as
// the verifier does.
func (p *Claim) Proof(salt [32]byte) *Proof {
	return &Proof{
		Leaf:       HashLeaf(p.Recipient, p.Amount, p.Index, salt),
		Siblings:   append([]common.Hash(nil), p.Siblings...),
		Directions: common.CopyBytes(p.Directions),
		Index:      p.Index,
	}
}
