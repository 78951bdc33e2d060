package envelope

import (
	"bytes"
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/styx-network/gstyx/common"
	"github.com/styx-network/gstyx/params"
)

var testDumper = spew.ConfigState{DisableMethods: true, Indent: "    "}

// Pinned minimal frame: kind=message, algo=pmf1, id=0x11*32, body
// "hello", no optional fields.
const (
	minimalEnvelopeHex = "53545958010100000111111111111111111111111111111111111111" +
		"111111111111111111111111110568656c6c6f"
	minimalEnvelopeMemo = "styx1:U1RZWAEBAAABEREREREREREREREREREREREREREREREREREREREREREFaGVsbG8"
)

// Pinned full frame: kind=reveal, every optional field present.
const fullEnvelopeHex = "5354595801021f000155555555555555555555555555555555555555555555" +
	"5555555555555555555522222222222222222222222222222222222222222222222222222222" +
	"2222222233333333333333333333333333333333333333333333333333333333333333330c00" +
	"0102030405060708090a0b06636970686572046161642140444444444444444444444444444444" +
	"4444444444444444444444444444444444444444444444444444444444444444444444444444" +
	"44444444444444444444"

func test32(b byte) common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func minimalEnvelope() *Envelope {
	return &Envelope{
		Version: params.EnvelopeVersion,
		Kind:    KindMessage,
		Algo:    AlgoPMF1,
		ID:      test32(0x11),
		Body:    []byte("hello"),
	}
}

func fullEnvelope() *Envelope {
	toHash, from := test32(0x22), test32(0x33)
	return &Envelope{
		Version: params.EnvelopeVersion,
		Kind:    KindReveal,
		Algo:    AlgoPMF1,
		ID:      test32(0x55),
		ToHash:  &toHash,
		From:    &from,
		Nonce:   []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		Body:    []byte("cipher"),
		AAD:     []byte("aad!"),
		Sig:     bytes.Repeat([]byte{0x44}, 64),
	}
}

func TestEnvelopeVectors(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  *Envelope
		hex  string
	}{
		{"minimal", minimalEnvelope(), minimalEnvelopeHex},
		{"full", fullEnvelope(), fullEnvelopeHex},
	} {
		raw, err := Encode(tc.env)
		if err != nil {
			t.Fatalf("%s: Encode: %v", tc.name, err)
		}
		if got := hex.EncodeToString(raw); got != tc.hex {
			t.Fatalf("%s: encoded bytes changed\ngot  %s\nwant %s", tc.name, got, tc.hex)
		}
		decoded, err := Decode(raw)
		if err != nil {
			t.Fatalf("%s: Decode: %v", tc.name, err)
		}
		if !reflect.DeepEqual(decoded, tc.env) {
			t.Fatalf("%s: round trip changed the envelope\ngot:  %s\nwant: %s",
				tc.name, testDumper.Sdump(decoded), testDumper.Sdump(tc.env))
		}
	}

	memo, err := EncodeMemo(minimalEnvelope())
	if err != nil {
		t.Fatalf("EncodeMemo: %v", err)
	}
	if memo != minimalEnvelopeMemo {
		t.Fatalf("memo string changed\ngot  %s\nwant %s", memo, minimalEnvelopeMemo)
	}
}

func TestEnvelopeOptionalCombos(t *testing.T) {
	toHash, from := test32(0xAA), test32(0xBB)
	for combo := 0; combo < 32; combo++ {
		env := &Envelope{
			Version: params.EnvelopeVersion,
			Kind:    KindKeybundle,
			Algo:    AlgoPMF1,
			ID:      test32(byte(combo)),
			Body:    []byte{0xF0, byte(combo)},
		}
		if combo&1 != 0 {
			env.ToHash = &toHash
		}
		if combo&2 != 0 {
			env.From = &from
		}
		if combo&4 != 0 {
			env.Nonce = []byte{1, 2, 3}
		}
		if combo&8 != 0 {
			env.AAD = []byte("extra")
		}
		if combo&16 != 0 {
			env.Sig = bytes.Repeat([]byte{0x5A}, 64)
		}

		raw, err := Encode(env)
		if err != nil {
			t.Fatalf("combo %05b: Encode: %v", combo, err)
		}
		decoded, err := Decode(raw)
		if err != nil {
			t.Fatalf("combo %05b: Decode: %v", combo, err)
		}
		if !reflect.DeepEqual(decoded, env) {
			t.Fatalf("combo %05b: round trip changed the envelope\ngot:  %s\nwant: %s",
				combo, testDumper.Sdump(decoded), testDumper.Sdump(env))
		}
	}
}

func TestEnvelopeEncodeRejects(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Envelope)
		want   error
	}{
		{"version zero", func(e *Envelope) { e.Version = 0 }, ErrInvalidEnvelope},
		{"future version", func(e *Envelope) { e.Version = 2 }, ErrInvalidEnvelope},
		{"kind zero", func(e *Envelope) { e.Kind = 0 }, ErrInvalidEnvelope},
		{"unknown kind", func(e *Envelope) { e.Kind = 4 }, ErrInvalidEnvelope},
		{"algo zero", func(e *Envelope) { e.Algo = 0 }, ErrInvalidEnvelope},
		{"unknown algo", func(e *Envelope) { e.Algo = 9 }, ErrInvalidEnvelope},
		{"oversize body", func(e *Envelope) { e.Body = make([]byte, params.MaxEnvelopeBytes) }, ErrEnvelopeTooLarge},
	} {
		env := minimalEnvelope()
		tc.mutate(env)
		if _, err := Encode(env); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// The bound is on the whole frame, not the body alone.
	env := minimalEnvelope()
	env.Body = make([]byte, params.MaxEnvelopeBytes-headerLen-2)
	if _, err := Encode(env); err != nil {
		t.Fatalf("body at the bound rejected: %v", err)
	}
	env.Body = append(env.Body, 0)
	if _, err := Encode(env); !errors.Is(err, ErrEnvelopeTooLarge) {
		t.Fatalf("body past the bound: got %v", err)
	}
}

func TestEnvelopeDecodeRejects(t *testing.T) {
	good, err := Encode(fullEnvelope())
	if err != nil {
		t.Fatal(err)
	}

	mutated := func(off int, b byte) []byte {
		out := append([]byte(nil), good...)
		out[off] = b
		return out
	}
	cases := map[string][]byte{
		"empty":              {},
		"short header":       good[:16],
		"bad magic":          mutated(0, 'X'),
		"bad version":        mutated(4, 2),
		"unknown kind":       mutated(5, 0xEE),
		"unknown algo":       mutated(8, 0xEE),
		"truncated id":       good[:headerLen-1],
		"missing tohash":     good[:headerLen+16],
		"trailing byte":      append(append([]byte(nil), good...), 0),
		"body past the end":  append(append([]byte(nil), minimalHeader()...), 0x7F),
		"varint overflow":    append(append([]byte(nil), minimalHeader()...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01),
		"varint never ends":  append(append([]byte(nil), minimalHeader()...), 0xFF, 0xFF),
		"flag with no bytes": flaggedHeaderOnly(),
	}
	for name, raw := range cases {
		if _, err := Decode(raw); !errors.Is(err, ErrInvalidEnvelope) {
			t.Fatalf("%s: got %v", name, err)
		}
	}

	if _, err := Decode(make([]byte, params.MaxEnvelopeBytes+1)); !errors.Is(err, ErrEnvelopeTooLarge) {
		t.Fatalf("oversize input: got %v", err)
	}
}

// minimalHeader is a valid 41-byte header with no flags, ready for a
// hand-built body field.
func minimalHeader() []byte {
	raw, err := Encode(minimalEnvelope())
	if err != nil {
		panic(err)
	}
	return raw[:headerLen]
}

// flaggedHeaderOnly sets the nonce flag but supplies no nonce bytes.
func flaggedHeaderOnly() []byte {
	h := minimalHeader()
	h[6] = byte(flagNonce)
	return h
}

func TestEnvelopeTruncationSweep(t *testing.T) {
	raw, err := Encode(fullEnvelope())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(raw); i++ {
		if _, err := Decode(raw[:i]); err == nil {
			t.Fatalf("decode succeeded on a %d/%d byte prefix", i, len(raw))
		}
	}
}

func TestMemoStrings(t *testing.T) {
	memo, err := EncodeMemo(fullEnvelope())
	if err != nil {
		t.Fatalf("EncodeMemo: %v", err)
	}
	if !strings.HasPrefix(memo, MemoPrefix) {
		t.Fatalf("memo %q lacks the prefix", memo)
	}
	decoded, err := DecodeMemo(memo)
	if err != nil {
		t.Fatalf("DecodeMemo: %v", err)
	}
	if !reflect.DeepEqual(decoded, fullEnvelope()) {
		t.Fatalf("memo round trip changed the envelope\ngot: %s", testDumper.Sdump(decoded))
	}

	for name, input := range map[string]string{
		"empty":        "",
		"no prefix":    strings.TrimPrefix(memo, MemoPrefix),
		"wrong prefix": "wd1:" + strings.TrimPrefix(memo, MemoPrefix),
		"bad base64":   MemoPrefix + "!!!!",
		"padded":       memo + "==",
	} {
		if _, err := DecodeMemo(input); !errors.Is(err, ErrInvalidMemo) {
			t.Fatalf("%s: got %v", name, err)
		}
	}

	// A well-formed memo around a broken frame fails envelope checks.
	if _, err := DecodeMemo(MemoPrefix + "AAAA"); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("broken frame: got %v", err)
	}
}

func FuzzDecodeEnvelope(f *testing.F) {
	minimal, _ := hex.DecodeString(minimalEnvelopeHex)
	full, _ := hex.DecodeString(fullEnvelopeHex)
	f.Add(minimal)
	f.Add(full)
	f.Add([]byte("STYX"))

	f.Fuzz(func(t *testing.T, raw []byte) {
		env, err := Decode(raw)
		if err != nil {
			if !errors.Is(err, ErrInvalidEnvelope) && !errors.Is(err, ErrEnvelopeTooLarge) {
				t.Fatalf("unwrapped decode error: %v", err)
			}
			return
		}
		encoded, err := Encode(env)
		if err != nil {
			t.Fatalf("decoded envelope does not re-encode: %v", err)
		}
		again, err := Decode(encoded)
		if err != nil {
			t.Fatalf("re-encoded envelope does not decode: %v", err)
		}
		if !reflect.DeepEqual(again, env) {
			t.Fatalf("decode is unstable\nfirst:  %s\nsecond: %s",
				testDumper.Sdump(env), testDumper.Sdump(again))
		}
	})
}
