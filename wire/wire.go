// Package wire implements the binary instruction codec shared by every
// protocol domain.
//
// An instruction payload is a single byte buffer:
//
//	byte 0     domain (u8)
//	byte 1     operation (u8)
//	bytes 2..  operation fields at fixed offsets
//
// All multi-byte integers are little-endian. Fixed-size fields (keys,
// hashes, commitments) are raw bytes; variable-length fields carry an
// explicit u16 or u32 little-endian length prefix immediately before
// their bytes.
//
// Each operation's layout is an explicit Schema registered at init
// time, never ad hoc buffer arithmetic. Some deployed handlers receive
// the payload with the domain byte already stripped, so their field
// offsets count from the operation byte; Schema.Stripped records that
// per-operation contract, which is fixed by the deployed program and
// must not be re-derived.
package wire

import (
	"fmt"

	"github.com/styx-network/gstyx/params"
)

// Domain selects an instruction family.
type Domain uint8

// Op selects an action within a domain.
type Op uint8

// Instruction domains. Frozen: the deployed dispatcher routes on these
// exact values.
const (
	DomainMemo   Domain = 0x01 // private messaging and transfers
	DomainEscrow Domain = 0x02 // airdrop campaigns and claims
)

// DomainName returns the lower-case name used in logs and CLI output.
func DomainName(d Domain) string {
	switch d {
	case DomainMemo:
		return "memo"
	case DomainEscrow:
		return "escrow"
	default:
		return fmt.Sprintf("domain(0x%02x)", uint8(d))
	}
}

// Envelope is a parsed instruction discriminator plus the untouched
// payload bytes (discriminators included).
type Envelope struct {
	Domain  Domain
	Op      Op
	Payload []byte
}

// Split reads the two discriminator bytes off a raw payload. It does
// not validate the operation fields; use Decode for that.
func Split(raw []byte) (Domain, Op, error) {
	if len(raw) < 2 {
		return 0, 0, fmt.Errorf("%w: need at least 2 bytes, have %d", ErrMalformedPayload, len(raw))
	}
	if len(raw) > params.MaxInstructionBytes {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrOversize, len(raw))
	}
	return Domain(raw[0]), Op(raw[1]), nil
}
