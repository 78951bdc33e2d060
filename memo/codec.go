package memo

import (
	"encoding/binary"
	"fmt"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/params"
	"github.com/styx-network/gstyx/wire"
)

// finish bounds-checks the assembled payload and re-walks it against
// the schema, so an encoder can never emit bytes its own table rejects.
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

func putDiscriminators(w *wire.Writer, op uint8) {
	w.PutU8(uint8(Domain))
	w.PutU8(op)
}

// EncodePrivateMessage serializes p for submission. The compliance
// tail is appended only when FlagCompliance is set.
func EncodePrivateMessage(p PrivateMessage) ([]byte, error) {
	if len(p.AuditorKeys) > 0 && p.Flags&FlagCompliance == 0 {
		return nil, fmt.Errorf("%w: auditor keys without compliance flag", ErrInvalidPayload)
	}
	if len(p.AuditorKeys) > 0xFF {
		return nil, fmt.Errorf("%w: %d auditor keys", ErrInvalidPayload, len(p.AuditorKeys))
	}
	w := wire.NewWriter(privateMessageSchema.MinLen() + len(p.Payload) + 33*len(p.AuditorKeys))
	putDiscriminators(w, OpPrivateMessage)
	w.PutU8(p.Flags)
	w.PutBytes(p.EncRecipient[:])
	w.PutBytes(p.Sender.Bytes())
	if err := w.PutVar16(p.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Flags&FlagCompliance != 0 && len(p.AuditorKeys) > 0 {
		w.PutU8(uint8(len(p.AuditorKeys)))
		for _, a := range p.AuditorKeys {
			w.PutBytes(a.Bytes())
		}
	}
	return finish(privateMessageSchema, w)
}

// DecodePrivateMessage parses a full private-message payload,
// including the optional compliance tail.
func DecodePrivateMessage(raw []byte) (PrivateMessage, error) {
	fields, tail, err := privateMessageSchema.Walk(raw)
	if err != nil {
		return PrivateMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p PrivateMessage
	p.Flags = fields[0].Data[0]
	copy(p.EncRecipient[:], fields[1].Data)
	p.Sender = common.BytesToAddress(fields[2].Data)
	p.Payload = fields[3].Data

	switch {
	case len(tail) == 0:
		// The original handler tolerates a compliance flag with no
		// tail; so do we.
	case p.Flags&FlagCompliance == 0:
		return PrivateMessage{}, fmt.Errorf("%w: tail without compliance flag", ErrInvalidPayload)
	default:
		r := wire.NewReader(tail)
		count, err := r.U8()
		if err != nil {
			return PrivateMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		p.AuditorKeys = make([]common.Address, count)
		for i := range p.AuditorKeys {
			b, err := r.Bytes32()
			if err != nil {
				return PrivateMessage{}, fmt.Errorf("%w: truncated auditor list", ErrInvalidPayload)
			}
			p.AuditorKeys[i] = common.Address(b)
		}
		if r.Remaining() > 0 {
			return PrivateMessage{}, fmt.Errorf("%w: trailing bytes after auditor list", ErrInvalidPayload)
		}
	}
	return p, nil
}

// EncodeRoutedMessage serializes one onion layer.
func EncodeRoutedMessage(p RoutedMessage) ([]byte, error) {
	if int(p.HopCount) > params.MaxHops {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyHops, p.HopCount, params.MaxHops)
	}
	if p.HopIndex > p.HopCount {
		return nil, fmt.Errorf("%w: hop index %d of %d", ErrInvalidPayload, p.HopIndex, p.HopCount)
	}
	w := wire.NewWriter(routedMessageSchema.MinLen() + len(p.Payload))
	putDiscriminators(w, OpRoutedMessage)
	w.PutU8(p.Flags)
	w.PutU8(p.HopCount)
	w.PutBytes(p.SessionID[:])
	w.PutU8(p.HopIndex)
	w.PutBytes(p.NextHop[:])
	if err := w.PutVar16(p.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return finish(routedMessageSchema, w)
}

// DecodeRoutedMessage parses a routed-message payload and enforces the
// hop bound.
func DecodeRoutedMessage(raw []byte) (RoutedMessage, error) {
	fields, _, err := routedMessageSchema.Walk(raw)
	if err != nil {
		return RoutedMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p RoutedMessage
	p.Flags = fields[0].Data[0]
	p.HopCount = fields[1].Data[0]
	copy(p.SessionID[:], fields[2].Data)
	p.HopIndex = fields[3].Data[0]
	copy(p.NextHop[:], fields[4].Data)
	p.Payload = fields[5].Data
	if int(p.HopCount) > params.MaxHops {
		return RoutedMessage{}, fmt.Errorf("%w: %d > %d", ErrTooManyHops, p.HopCount, params.MaxHops)
	}
	if p.HopIndex > p.HopCount {
		return RoutedMessage{}, fmt.Errorf("%w: hop index %d of %d", ErrInvalidPayload, p.HopIndex, p.HopCount)
	}
	return p, nil
}

// EncodePrivateTransfer serializes a masked transfer. Callers mask the
// amount and recipient first; see MaskAmount and EncryptRecipient.
func EncodePrivateTransfer(p PrivateTransfer) ([]byte, error) {
	w := wire.NewWriter(privateTransferSchema.MinLen() + len(p.Memo))
	putDiscriminators(w, OpPrivateTransfer)
	w.PutU8(p.Flags)
	w.PutBytes(p.EncRecipient[:])
	w.PutBytes(p.Sender.Bytes())
	w.PutU64(p.EncAmount)
	w.PutBytes(p.AmountNonce[:])
	if err := w.PutVar16(p.Memo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return finish(privateTransferSchema, w)
}

// DecodePrivateTransfer parses a masked transfer payload.
func DecodePrivateTransfer(raw []byte) (PrivateTransfer, error) {
	fields, _, err := privateTransferSchema.Walk(raw)
	if err != nil {
		return PrivateTransfer{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p PrivateTransfer
	p.Flags = fields[0].Data[0]
	copy(p.EncRecipient[:], fields[1].Data)
	p.Sender = common.BytesToAddress(fields[2].Data)
	p.EncAmount = binary.LittleEndian.Uint64(fields[3].Data)
	copy(p.AmountNonce[:], fields[4].Data)
	p.Memo = fields[5].Data
	return p, nil
}

// EncodeRatchetMessage serializes a forward-secret message.
func EncodeRatchetMessage(p RatchetMessage) ([]byte, error) {
	w := wire.NewWriter(ratchetMessageSchema.MinLen() + len(p.Ciphertext))
	putDiscriminators(w, OpRatchetMessage)
	w.PutU8(p.Flags)
	w.PutBytes(p.SessionID[:])
	w.PutU64(p.Counter)
	w.PutBytes(p.EphemeralPub[:])
	if err := w.PutVar16(p.Ciphertext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return finish(ratchetMessageSchema, w)
}

// DecodeRatchetMessage parses a forward-secret message payload.
func DecodeRatchetMessage(raw []byte) (RatchetMessage, error) {
	fields, _, err := ratchetMessageSchema.Walk(raw)
	if err != nil {
		return RatchetMessage{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p RatchetMessage
	p.Flags = fields[0].Data[0]
	copy(p.SessionID[:], fields[1].Data)
	p.Counter = binary.LittleEndian.Uint64(fields[2].Data)
	copy(p.EphemeralPub[:], fields[3].Data)
	p.Ciphertext = fields[4].Data
	return p, nil
}

// EncodeComplianceReveal serializes an auditor disclosure. Unknown
// reveal types are rejected at encode time.
func EncodeComplianceReveal(p ComplianceReveal) ([]byte, error) {
	if !p.RevealType.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRevealType, p.RevealType)
	}
	w := wire.NewWriter(complianceRevealSchema.MinLen())
	putDiscriminators(w, OpComplianceReveal)
	w.PutU8(p.Flags)
	w.PutBytes(p.MessageID[:])
	w.PutBytes(p.Auditor.Bytes())
	w.PutBytes(p.DisclosureKey[:])
	w.PutU8(uint8(p.RevealType))
	return finish(complianceRevealSchema, w)
}

// DecodeComplianceReveal parses a disclosure payload. An undefined
// reveal type decodes (the deployed handler logs it as "unknown") but
// reports Valid() == false.
func DecodeComplianceReveal(raw []byte) (ComplianceReveal, error) {
	fields, _, err := complianceRevealSchema.Walk(raw)
	if err != nil {
		return ComplianceReveal{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var p ComplianceReveal
	p.Flags = fields[0].Data[0]
	copy(p.MessageID[:], fields[1].Data)
	p.Auditor = common.BytesToAddress(fields[2].Data)
	copy(p.DisclosureKey[:], fields[3].Data)
	p.RevealType = RevealType(fields[4].Data[0])
	return p, nil
}
