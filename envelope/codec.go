package envelope

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/params"
	"github.com/styx-network/gstyx/wire"
)

// MemoPrefix opens every memo-string rendition of an envelope.
const MemoPrefix = "styx1:"

// headerLen is magic, version, kind, flags, algo and id.
const headerLen = 4 + 1 + 1 + 2 + 1 + 32

const (
	flagToHash uint16 = 1 << iota
	flagFrom
	flagNonce
	flagAAD
	flagSig
)

// putUvarint appends n as unsigned LEB128.
func putUvarint(w *wire.Writer, n int) {
	v := uint(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			w.PutU8(b)
			return
		}
		w.PutU8(b | 0x80)
	}
}

// readUvarint reads an unsigned LEB128 length. Encodings past five
// bytes are rejected before the value can widen a read.
func readUvarint(r *wire.Reader) (int, error) {
	var v, shift uint
	for {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		v |= uint(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(v), nil
		}
		shift += 7
		if shift > 28 {
			return 0, fmt.Errorf("varint too large")
		}
	}
}

func readVarBytes(r *wire.Reader) ([]byte, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// A flagged field of zero length decodes as absent, so decoding
		// is stable under re-encoding.
		return nil, nil
	}
	return r.Bytes(n)
}

// Encode serializes e. Optional fields follow the fixed header in flag
// order; the body always travels, length-prefixed, even when empty.
func Encode(e *Envelope) ([]byte, error) {
	if e.Version != params.EnvelopeVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidEnvelope, e.Version)
	}
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidEnvelope, uint8(e.Kind))
	}
	if !e.Algo.Valid() {
		return nil, fmt.Errorf("%w: algo %d", ErrInvalidEnvelope, uint8(e.Algo))
	}

	var flags uint16
	if e.ToHash != nil {
		flags |= flagToHash
	}
	if e.From != nil {
		flags |= flagFrom
	}
	if len(e.Nonce) > 0 {
		flags |= flagNonce
	}
	if len(e.AAD) > 0 {
		flags |= flagAAD
	}
	if len(e.Sig) > 0 {
		flags |= flagSig
	}

	w := wire.NewWriter(headerLen + 64 + len(e.Nonce) + len(e.Body) + len(e.AAD) + len(e.Sig) + 20)
	w.PutBytes([]byte(Magic))
	w.PutU8(e.Version)
	w.PutU8(uint8(e.Kind))
	w.PutU16(flags)
	w.PutU8(uint8(e.Algo))
	w.PutBytes(e.ID.Bytes())
	if e.ToHash != nil {
		w.PutBytes(e.ToHash.Bytes())
	}
	if e.From != nil {
		w.PutBytes(e.From.Bytes())
	}
	if len(e.Nonce) > 0 {
		putUvarint(w, len(e.Nonce))
		w.PutBytes(e.Nonce)
	}
	putUvarint(w, len(e.Body))
	w.PutBytes(e.Body)
	if len(e.AAD) > 0 {
		putUvarint(w, len(e.AAD))
		w.PutBytes(e.AAD)
	}
	if len(e.Sig) > 0 {
		putUvarint(w, len(e.Sig))
		w.PutBytes(e.Sig)
	}

	if w.Len() > params.MaxEnvelopeBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnvelopeTooLarge, w.Len())
	}
	return w.Bytes(), nil
}

// Decode parses and validates a binary envelope. Undefined flag bits
// are ignored. Decode never panics on hostile input; every structural
// failure wraps ErrInvalidEnvelope.
func Decode(raw []byte) (*Envelope, error) {
	if len(raw) > params.MaxEnvelopeBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrEnvelopeTooLarge, len(raw))
	}
	r := wire.NewReader(raw)

	magic, err := r.Bytes(len(Magic))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidEnvelope)
	}
	version, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if version != params.EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEnvelope, version)
	}
	kindCode, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	flags, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	algoCode, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	e := &Envelope{Version: version, Kind: Kind(kindCode), Algo: Algo(algoCode)}
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidEnvelope, kindCode)
	}
	if !e.Algo.Valid() {
		return nil, fmt.Errorf("%w: unknown algo %d", ErrInvalidEnvelope, algoCode)
	}

	id, err := r.Bytes32()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	e.ID = common.Hash(id)

	if flags&flagToHash != 0 {
		h, err := r.Bytes32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
		th := common.Hash(h)
		e.ToHash = &th
	}
	if flags&flagFrom != 0 {
		h, err := r.Bytes32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
		from := common.Hash(h)
		e.From = &from
	}
	if flags&flagNonce != 0 {
		if e.Nonce, err = readVarBytes(r); err != nil {
			return nil, fmt.Errorf("%w: nonce: %v", ErrInvalidEnvelope, err)
		}
	}
	if e.Body, err = readVarBytes(r); err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrInvalidEnvelope, err)
	}
	if flags&flagAAD != 0 {
		if e.AAD, err = readVarBytes(r); err != nil {
			return nil, fmt.Errorf("%w: aad: %v", ErrInvalidEnvelope, err)
		}
	}
	if flags&flagSig != 0 {
		if e.Sig, err = readVarBytes(r); err != nil {
			return nil, fmt.Errorf("%w: sig: %v", ErrInvalidEnvelope, err)
		}
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidEnvelope, r.Remaining())
	}
	return e, nil
}

// EncodeMemo renders e as a memo string: MemoPrefix plus unpadded
// url-safe base64 of the binary envelope.
func EncodeMemo(e *Envelope) (string, error) {
	raw, err := Encode(e)
	if err != nil {
		return "", err
	}
	return MemoPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeMemo parses a memo string produced by EncodeMemo.
func DecodeMemo(s string) (*Envelope, error) {
	if !strings.HasPrefix(s, MemoPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidMemo, MemoPrefix)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(s, MemoPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMemo, err)
	}
	return Decode(raw)
}
