package escrow

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/styx-network/gstyx/common"
)

// ClaimCodePrefix starts every claim code handed to a recipient. The
// rest is the proof blob, base64url without padding:
//
//	[leaf:32][count:u8][siblings:32*count][directions:count][index:u32]
const ClaimCodePrefix = "wdclaim1:"

// EncodeClaimCode renders a proof as the ASCII code recipients paste
// into a claim URL. The round trip through DecodeClaimCode is
// lossless.
func EncodeClaimCode(p *Proof) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil proof", ErrInvalidClaimCode)
	}
	if err := checkProofShape(p.Siblings, p.Directions); err != nil {
		return "", err
	}
	blob := make([]byte, 0, 32+1+len(p.Siblings)*33+4)
	blob = append(blob, p.Leaf.Bytes()...)
	blob = append(blob, byte(len(p.Siblings)))
	for _, sib := range p.Siblings {
		blob = append(blob, sib.Bytes()...)
	}
	blob = append(blob, p.Directions...)
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], p.Index)
	blob = append(blob, idx[:]...)
	return ClaimCodePrefix + base64.RawURLEncoding.EncodeToString(blob), nil
}

// DecodeClaimCode parses a claim code back into its proof. Every parse
// failure wraps ErrInvalidClaimCode; trailing bytes are rejected.
func DecodeClaimCode(code string) (*Proof, error) {
	if !strings.HasPrefix(code, ClaimCodePrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidClaimCode, ClaimCodePrefix)
	}
	blob, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(code, ClaimCodePrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaimCode, err)
	}
	if len(blob) < 32+1+4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidClaimCode, len(blob))
	}
	count := int(blob[32])
	if len(blob) != 32+1+count*33+4 {
		return nil, fmt.Errorf("%w: %d bytes for %d levels", ErrInvalidClaimCode, len(blob), count)
	}

	p := &Proof{
		Leaf:       common.BytesToHash(blob[:32]),
		Siblings:   make([]common.Hash, count),
		Directions: common.CopyBytes(blob[33+count*32 : 33+count*33]),
	}
	for i := range p.Siblings {
		p.Siblings[i] = common.BytesToHash(blob[33+i*32 : 33+(i+1)*32])
	}
	p.Index = binary.LittleEndian.Uint32(blob[len(blob)-4:])

	if err := checkProofShape(p.Siblings, p.Directions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaimCode, err)
	}
	return p, nil
}
